// Package token generates the identifiers that shortened URLs are keyed by.
package token

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultLength is the token length used when no explicit length is configured.
const DefaultLength = 6

// alphabet holds the 62 symbols tokens are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces fixed-length random tokens over the [A-Za-z0-9] alphabet.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	length int
}

// New returns a Generator producing tokens of the given length.
// Non-positive lengths fall back to DefaultLength.
func New(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}

	return &Generator{length: length}
}

// Generate returns a new random token. Uniqueness is not guaranteed here;
// the store's unique constraint is the arbiter.
func (g *Generator) Generate() (string, error) {
	const op = "token.Generator.Generate"

	t, err := gonanoid.Generate(alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	return t, nil
}
