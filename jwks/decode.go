package jwks

import (
	"fmt"

	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// decodeDocument reads a JWKS document. Member names are matched exactly;
// other names, including other casings, are ignored. A known member that
// appears twice in the same object is an error.
func decodeDocument(jwksText string) (*document, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	root, err := p.Parse(jwksText)
	if err != nil {
		return nil, err
	}
	obj, err := root.Object()
	if err != nil {
		return nil, err
	}

	var doc document
	err = visitMembers(obj, func(name string, v *fastjson.Value) error {
		if name != "keys" {
			return nil
		}
		keys, err := decodeKeys(v)
		if err != nil {
			return fmt.Errorf("keys: %w", err)
		}
		doc.Keys = keys
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func decodeKeys(v *fastjson.Value) ([]JSONWebKey, error) {
	items, err := v.Array()
	if err != nil {
		return nil, err
	}

	keys := make([]JSONWebKey, 0, len(items))
	for i, item := range items {
		key, err := decodeKey(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func decodeKey(v *fastjson.Value) (JSONWebKey, error) {
	var key JSONWebKey

	obj, err := v.Object()
	if err != nil {
		return key, err
	}

	fields := map[string]*string{
		"alg": &key.Algorithm,
		"kty": &key.KeyType,
		"use": &key.Use,
		"n":   &key.Modulus,
		"e":   &key.Exponent,
		"kid": &key.KeyID,
	}

	err = visitMembers(obj, func(name string, v *fastjson.Value) error {
		if dst, ok := fields[name]; ok {
			s, err := v.StringBytes()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = string(s)
			return nil
		}

		switch name {
		case "x5t":
			if v.Type() == fastjson.TypeNull {
				return nil
			}
			s, err := v.StringBytes()
			if err != nil {
				return fmt.Errorf("x5t: %w", err)
			}
			key.CertificateThumbprint = string(s)
		case "x5c":
			if v.Type() == fastjson.TypeNull {
				return nil
			}
			chain, err := decodeStrings(v)
			if err != nil {
				return fmt.Errorf("x5c: %w", err)
			}
			key.CertificateChain = chain
		}
		return nil
	})

	return key, err
}

func decodeStrings(v *fastjson.Value) ([]string, error) {
	items, err := v.Array()
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := item.StringBytes()
		if err != nil {
			return nil, err
		}
		out = append(out, string(s))
	}
	return out, nil
}

var knownMembers = map[string]bool{
	"keys": true,
	"alg":  true,
	"kty":  true,
	"use":  true,
	"n":    true,
	"e":    true,
	"kid":  true,
	"x5c":  true,
	"x5t":  true,
}

// visitMembers calls fn for each member of obj in document order and stops
// at the first error.
func visitMembers(obj *fastjson.Object, fn func(name string, v *fastjson.Value) error) error {
	seen := make(map[string]bool, obj.Len())

	var err error
	obj.Visit(func(key []byte, v *fastjson.Value) {
		if err != nil {
			return
		}
		name := string(key)
		if knownMembers[name] {
			if seen[name] {
				err = fmt.Errorf("duplicate member %q", name)
				return
			}
			seen[name] = true
		}
		err = fn(name, v)
	})
	return err
}
