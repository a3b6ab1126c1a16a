package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Claims is the verified payload of a token, passed through as decoded JSON.
//
// Numbers are kept as json.Number so large values such as exp survive
// unmodified. No schema is enforced; the helpers below only read the
// registered claims (RFC 7519) when they are present with the expected type.
type Claims map[string]any

// String returns the claim as a string, or "" when absent or not a string.
func (c Claims) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// Issuer returns the iss claim.
func (c Claims) Issuer() string {
	return c.String("iss")
}

// Subject returns the sub claim.
func (c Claims) Subject() string {
	return c.String("sub")
}

// Audience returns the aud claim, which may be a single string or an array.
func (c Claims) Audience() []string {
	switch aud := c["aud"].(type) {
	case string:
		return []string{aud}
	case []any:
		out := make([]string, 0, len(aud))
		for _, v := range aud {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ExpiresAt returns the exp claim, or the zero time.
func (c Claims) ExpiresAt() time.Time {
	return c.numericDate("exp")
}

// IssuedAt returns the iat claim, or the zero time.
func (c Claims) IssuedAt() time.Time {
	return c.numericDate("iat")
}

// NotBefore returns the nbf claim, or the zero time.
func (c Claims) NotBefore() time.Time {
	return c.numericDate("nbf")
}

// Numeric dates outside years 1 through 9999 are rejected.
const (
	minNumericDate = -62135596800
	maxNumericDate = 253402300799
)

func (c Claims) numericDate(name string) time.Time {
	t, _, err := c.lookupNumericDate(name)
	if err != nil {
		return time.Time{}
	}
	return t
}

// lookupNumericDate reads a NumericDate claim (RFC 7519 section 2). ok is
// false when the claim is absent; a present claim that is not a number in
// range is an error.
func (c Claims) lookupNumericDate(name string) (time.Time, bool, error) {
	raw, ok := c[name]
	if !ok {
		return time.Time{}, false, nil
	}

	var seconds float64
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			if i < minNumericDate || i > maxNumericDate {
				return time.Time{}, true, fmt.Errorf("%q claim %d is out of range", name, i)
			}
			return time.Unix(i, 0).UTC(), true, nil
		}
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, true, fmt.Errorf("%q claim is not a number: %w", name, err)
		}
		seconds = f
	case float64:
		seconds = v
	default:
		return time.Time{}, true, fmt.Errorf("%q claim is not a number", name)
	}

	if math.IsNaN(seconds) || seconds < minNumericDate || seconds > maxNumericDate {
		return time.Time{}, true, fmt.Errorf("%q claim %g is out of range", name, seconds)
	}

	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), true, nil
}
