// Package ident produces opaque identifiers for notes and tags.
package ident

import "github.com/google/uuid"

// Generator returns a fresh identifier on every call.
// Implementations must make collisions practically impossible, including
// across separate processes.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to the Generator interface.
type Func func() string

// NewID implements Generator.
func (f Func) NewID() string { return f() }

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID() string { return uuid.NewString() }

// Default is the generator used when none is configured.
var Default Generator = UUID{}
