// Package id mints the prefixed identifiers used across the catalog,
// such as "ent-V1StGXR8_Z5jdHi6B-myT" for entries and "genre-..." for
// genres. The random part is a 21-character NanoID, which stays
// URL-safe and shorter than a UUID.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a new prefixed identifier. It fails only when the
// system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate panics instead of returning an error. For seeding and
// tests, where an entropy failure should just crash.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
