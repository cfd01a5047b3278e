// Package ident provides the bidirectional mapping between textual entity
// names (e.g. "M3", "MC7", "N142") and zero-based integer ids used
// internally throughout the loader and net-tree builder.
package ident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedName is returned when a name does not match its entity's
// expected prefix, or its suffix is not a positive integer.
var ErrMalformedName = errors.New("malformed identifier")

// Kind identifies one of the fixed entity classes, each with its own
// prefix string.
type Kind int

const (
	KindLayer Kind = iota
	KindMasterPin
	KindBlockage
	KindMasterCell
	KindCell
	KindNet
)

// prefix returns the textual prefix for a Kind. Panics on an unknown Kind,
// since Kind values are only ever produced internally by this package's
// constants.
func (k Kind) prefix() string {
	switch k {
	case KindLayer:
		return "M"
	case KindMasterPin:
		return "P"
	case KindBlockage:
		return "B"
	case KindMasterCell:
		return "MC"
	case KindCell:
		return "C"
	case KindNet:
		return "N"
	default:
		panic(fmt.Sprintf("ident: unknown kind %d", k))
	}
}

// Decode strips the Kind's prefix from name and parses the remaining
// digits as a positive integer, returning id = n-1. Fails with
// ErrMalformedName if the prefix does not match or the suffix is not a
// positive integer.
func Decode(k Kind, name string) (int, error) {
	p := k.prefix()
	suffix, ok := strings.CutPrefix(name, p)
	if !ok {
		return 0, fmt.Errorf("ident: %q: %w", name, ErrMalformedName)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("ident: %q: %w", name, ErrMalformedName)
	}
	return n - 1, nil
}

// Encode renders id as prefix‖(id+1). id must be >= 0.
func Encode(k Kind, id int) string {
	return k.prefix() + strconv.Itoa(id+1)
}
