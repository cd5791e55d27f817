// Package id provides id generation
package id

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// New generates a short lowercase id, safe to use in file names.
func New() string { return gonanoid.MustGenerate(alphabet, 12) }
