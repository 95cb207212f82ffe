// Package id generates prefixed random identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes in use.
const (
	PrefixActivity = "act"
	PrefixPreview  = "pv"
)

// Generate returns prefix-<nanoid>, e.g. "act-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("id.Generate: %w", err)
	}
	return prefix + "-" + n, nil
}
