package bpgraph

import (
	"errors"
	"fmt"
)

// ErrInvalidStrand is returned by [ParseStrand] for anything other than "+" or "-".
var ErrInvalidStrand = errors.New("invalid strand")

// Strand is the orientation of a breakpoint relative to the reference.
type Strand int

const (
	// StrandPositive is the forward strand, written "+".
	StrandPositive Strand = iota
	// StrandNegative is the reverse strand, written "-".
	StrandNegative
)

// ParseStrand converts a single-character strand code into a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandPositive, nil
	case "-":
		return StrandNegative, nil
	}
	return StrandPositive, fmt.Errorf("%w: %q", ErrInvalidStrand, s)
}

// IsReverse reports whether the strand is the negative strand.
func (s Strand) IsReverse() bool { return s == StrandNegative }

func (s Strand) String() string {
	if s == StrandNegative {
		return "-"
	}
	return "+"
}

// MarshalText implements encoding.TextMarshaler.
func (s Strand) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strand) UnmarshalText(text []byte) error {
	v, err := ParseStrand(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
