/*
Package jwks holds the set of public keys used to verify JWT signatures.

A KeyStore is built from a JWKS (JSON Web Key Set) document that the caller
has already retrieved, for example from https://{tenant}/.well-known/jwks.json.
This package never performs network I/O.

# Document Shape

	{
	  "keys": [
	    {
	      "kty": "RSA",
	      "alg": "RS256",
	      "use": "sig",
	      "n":   "<base64url modulus>",
	      "e":   "<base64url exponent>",
	      "kid": "<key id>",
	      "x5c": ["<certificate>"],   // optional
	      "x5t": "<thumbprint>"       // optional
	    }
	  ]
	}

Every field except x5c and x5t is required. A document that is not JSON, has
no "keys" array, or contains a key missing a required field is rejected as a
whole with an error matching ErrInvalidDocument.

Member names are case sensitive: "KID" is not "kid" and is ignored like any
other unknown member. A known member given twice in the same object is
rejected.

# Basic Usage

	store, err := jwks.NewKeyStore(jwksText)
	if err != nil {
	    log.Fatal(err)
	}

	key, ok := store.Lookup("my-key-id")

# Rotation

Rotate replaces the full key set. Concurrent lookups observe either the old
set or the new one, never a mix:

	if err := store.Rotate(newJWKSText); err != nil {
	    // The previous keys are still in use.
	    log.Printf("rotation failed: %v", err)
	}

# Duplicate Key IDs

When a document lists the same kid more than once, the entry that appears
last wins. A warning is logged when a logger is configured.
*/
package jwks
