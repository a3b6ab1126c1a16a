package jwks

import (
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

// JSONWebKey is a single public key descriptor from a JWKS document.
//
// See https://auth0.com/docs/secure/tokens/json-web-tokens/json-web-key-set-properties
type JSONWebKey struct {
	// Algorithm is the signing algorithm the key is meant for, e.g. RS256.
	Algorithm string `json:"alg" validate:"required"`
	// KeyType is the family of algorithms the key belongs to, e.g. RSA.
	KeyType string `json:"kty" validate:"required"`
	// Use is how the key was meant to be used; "sig" for signatures.
	Use string `json:"use" validate:"required"`
	// Modulus is the base64url encoded RSA modulus.
	Modulus string `json:"n" validate:"required"`
	// Exponent is the base64url encoded RSA public exponent.
	Exponent string `json:"e" validate:"required"`
	// KeyID uniquely identifies the key within the set.
	KeyID string `json:"kid" validate:"required"`
	// CertificateChain is the x.509 chain; the first entry signs tokens and
	// the others can be used to verify it.
	CertificateChain []string `json:"x5c,omitempty"`
	// CertificateThumbprint is the SHA-1 thumbprint of the x.509 certificate.
	CertificateThumbprint string `json:"x5t,omitempty"`
}

type document struct {
	Keys []JSONWebKey `json:"keys" validate:"required,dive"`
}

// snapshot is never mutated after it is published.
type snapshot struct {
	keys  map[string]*JSONWebKey
	order []string
}

// KeyStore indexes the keys of a JWKS document by key ID.
//
// Lookups are safe to run concurrently with each other and with Rotate:
// a reader always sees either the complete previous key set or the
// complete new one.
type KeyStore struct {
	current atomic.Pointer[snapshot]
	logger  Logger
	metrics Metrics
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Metrics receives key store rotation events.
type Metrics interface {
	ObserveRotation(success bool, keyCount int)
}

var structValidator = validator.New()

// NewKeyStore parses jwksText and builds a KeyStore from it.
//
// The whole document must parse: invalid JSON, a missing "keys" array or a
// key without one of alg, kty, use, n, e or kid fails with an error matching
// ErrInvalidDocument and no store is returned. When several keys share a key
// ID the one appearing last in the document wins.
//
// Example:
//
//	store, err := jwks.NewKeyStore(jwksText,
//	    jwks.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewKeyStore(jwksText string, opts ...Option) (*KeyStore, error) {
	ks := &KeyStore{}

	for _, opt := range opts {
		if err := opt(ks); err != nil {
			return nil, err
		}
	}

	snap, err := ks.parse(jwksText)
	if err != nil {
		if ks.logger != nil {
			ks.logger.Error("failed to build key store", "error", err)
		}
		return nil, err
	}
	ks.current.Store(snap)

	if ks.logger != nil {
		ks.logger.Info("key store built", "keys", len(snap.order))
	}
	if ks.metrics != nil {
		ks.metrics.ObserveRotation(true, len(snap.order))
	}

	return ks, nil
}

// Rotate replaces every key in the store with the keys of jwksText.
// On error the store keeps serving its previous keys unchanged.
func (ks *KeyStore) Rotate(jwksText string) error {
	snap, err := ks.parse(jwksText)
	if err != nil {
		if ks.logger != nil {
			ks.logger.Error("key rotation rejected, keeping current keys",
				"error", err,
				"keys", ks.Len())
		}
		if ks.metrics != nil {
			ks.metrics.ObserveRotation(false, ks.Len())
		}
		return err
	}

	previous := ks.current.Swap(snap)

	if ks.logger != nil {
		previousCount := 0
		if previous != nil {
			previousCount = len(previous.order)
		}
		ks.logger.Info("key store rotated",
			"previous_keys", previousCount,
			"keys", len(snap.order))
	}
	if ks.metrics != nil {
		ks.metrics.ObserveRotation(true, len(snap.order))
	}

	return nil
}

// Lookup returns the key registered under keyID.
// The returned key belongs to the store and must not be modified.
func (ks *KeyStore) Lookup(keyID string) (*JSONWebKey, bool) {
	snap := ks.current.Load()
	if snap == nil {
		return nil, false
	}
	key, ok := snap.keys[keyID]
	return key, ok
}

// Len returns the number of distinct key IDs in the store.
func (ks *KeyStore) Len() int {
	snap := ks.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.order)
}

// KeyIDs returns the key IDs in the order they first appeared in the document.
func (ks *KeyStore) KeyIDs() []string {
	snap := ks.current.Load()
	if snap == nil {
		return nil
	}
	ids := make([]string, len(snap.order))
	copy(ids, snap.order)
	return ids
}

func (ks *KeyStore) parse(jwksText string) (*snapshot, error) {
	doc, err := decodeDocument(jwksText)
	if err != nil {
		return nil, newDocumentError("could not decode document", err)
	}

	if err := structValidator.Struct(doc); err != nil {
		return nil, newDocumentError("document does not match the jwks shape", err)
	}

	snap := &snapshot{
		keys:  make(map[string]*JSONWebKey, len(doc.Keys)),
		order: make([]string, 0, len(doc.Keys)),
	}
	for i := range doc.Keys {
		key := &doc.Keys[i]
		if _, exists := snap.keys[key.KeyID]; exists {
			if ks.logger != nil {
				ks.logger.Warn("duplicate key id in jwks document, later entry wins",
					"kid", key.KeyID)
			}
		} else {
			snap.order = append(snap.order, key.KeyID)
		}
		snap.keys[key.KeyID] = key
	}

	return snap, nil
}
