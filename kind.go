// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"github.com/pkg/errors"
)

// A Kind identifies a type of circuit component.
//
type Kind uint8

// Component kinds.
//
const (
	Input  Kind = iota + 1 // switch
	Output                 // bulb
	And
	Or
	Not
	Xor
)

// ErrUnknownKind is returned when a component type tag is not one of the
// known kinds.
//
var ErrUnknownKind = errors.New("unknown component type")

// Kinds lists all valid component kinds in palette order.
//
var Kinds = []Kind{Input, Output, And, Or, Not, Xor}

// ParseKind returns the Kind for the given type tag ("INPUT", "OUTPUT", "AND",
// "OR", "NOT" or "XOR"). Any other value yields ErrUnknownKind.
//
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "INPUT":
		return Input, nil
	case "OUTPUT":
		return Output, nil
	case "AND":
		return And, nil
	case "OR":
		return Or, nil
	case "NOT":
		return Not, nil
	case "XOR":
		return Xor, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", tag)
}

// ParseKindCode returns the Kind for a one letter share code.
//
//	I: Input, O: Output, A: And, R: Or, N: Not, X: Xor
//
func ParseKindCode(code string) (Kind, error) {
	switch code {
	case "I":
		return Input, nil
	case "O":
		return Output, nil
	case "A":
		return And, nil
	case "R":
		return Or, nil
	case "N":
		return Not, nil
	case "X":
		return Xor, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "code %q", code)
}

// Valid returns true if k is one of the known kinds.
//
func (k Kind) Valid() bool {
	return k >= Input && k <= Xor
}

// String returns the type tag of k.
//
func (k Kind) String() string {
	switch k {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	case Xor:
		return "XOR"
	}
	return "INVALID"
}

// Code returns the one letter share code for k. "R" is used for Or since
// "O" is taken by Output.
//
func (k Kind) Code() string {
	switch k {
	case Input:
		return "I"
	case Output:
		return "O"
	case And:
		return "A"
	case Or:
		return "R"
	case Not:
		return "N"
	case Xor:
		return "X"
	}
	return ""
}

// Name returns the palette name of k.
//
func (k Kind) Name() string {
	switch k {
	case Input:
		return "Switch"
	case Output:
		return "Bulb"
	}
	return k.String()
}

// Inputs returns the number of input ports of k.
//
func (k Kind) Inputs() int {
	switch k {
	case Output, Not:
		return 1
	case And, Or, Xor:
		return 2
	}
	return 0
}

// Outputs returns the number of output ports of k (0 or 1).
//
func (k Kind) Outputs() int {
	if k.Valid() && k != Output {
		return 1
	}
	return 0
}

// Eval computes the output of a component of kind k.
//
// Input components ignore in and return state. Other kinds ignore state.
// Missing operands read as false, so Eval is total for any input vector.
//
//	Output:  in[0]
//	And:     in[0] && in[1]
//	Or:      in[0] || in[1]
//	Not:     !in[0]
//	Xor:     in[0] != in[1]
//
func (k Kind) Eval(in []bool, state bool) bool {
	a, b := operand(in, 0), operand(in, 1)
	switch k {
	case Input:
		return state
	case Output:
		return a
	case And:
		return a && b
	case Or:
		return a || b
	case Not:
		return !a
	case Xor:
		return a && !b || !a && b
	}
	return false
}

func operand(in []bool, i int) bool {
	return i < len(in) && in[i]
}

// MarshalText implements encoding.TextMarshaler.
//
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the six type tags
// are accepted.
//
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
