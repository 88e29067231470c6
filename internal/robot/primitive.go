// Package robot turns solver output into the motion vocabulary of the
// Cubotino Pocket robot: whole cube flips and spins plus turns of the bottom
// layer. It tracks where each cube face sits on the robot while a program
// is built, peephole-optimizes programs and picks the fastest candidate.
package robot

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the robot package.
var (
	// ErrInvariant reports an orientation tracker that lost a face. It is a
	// defect, not a cube problem, and must not trigger a re-scan.
	ErrInvariant = errors.New("robot: invariant violation")

	// ErrProgram reports a malformed primitive string.
	ErrProgram = errors.New("robot: invalid program")
)

// Kind selects one of the three robot motions.
type Kind byte

const (
	Flip   Kind = 'F' // roll the whole cube towards the back
	Spin   Kind = 'S' // turn the whole cube on the holder
	Rotate Kind = 'R' // turn the bottom layer, holding the top two
)

// Primitive is one robot motion. For Flip, N counts repeated flips. For Spin
// and Rotate, 1 is clockwise and 3 counter-clockwise, seen from below.
type Primitive struct {
	Kind Kind
	N    uint8
}

// Primitives used by the move table.
var (
	F1 = Primitive{Flip, 1}
	F2 = Primitive{Flip, 2}
	F3 = Primitive{Flip, 3}
	S1 = Primitive{Spin, 1}
	S3 = Primitive{Spin, 3}
	R1 = Primitive{Rotate, 1}
	R3 = Primitive{Rotate, 3}
)

func (p Primitive) String() string {
	return fmt.Sprintf("%c%d", p.Kind, p.N)
}

// Cost returns the number of servo actions of p.
func (p Primitive) Cost() int {
	if p.Kind == Flip {
		return int(p.N)
	}
	return 1
}

// Inverse returns the motion that undoes p.
func (p Primitive) Inverse() Primitive {
	switch p.Kind {
	case Flip:
		return Primitive{Flip, (4 - p.N%4) % 4}
	default:
		if p.N == 2 {
			return p
		}
		return Primitive{p.Kind, 4 - p.N}
	}
}

// Program is the token stream sent to the motion controller.
type Program []Primitive

// String returns the wire form, two characters per primitive and no
// separators, for example "F1R1S3".
func (p Program) String() string {
	var sb strings.Builder
	sb.Grow(2 * len(p))
	for _, prim := range p {
		sb.WriteByte(byte(prim.Kind))
		sb.WriteByte('0' + prim.N)
	}
	return sb.String()
}

// RobotMoves counts servo actions: a flip counts once per repetition, every
// spin and rotation counts once.
func (p Program) RobotMoves() int {
	n := 0
	for _, prim := range p {
		n += prim.Cost()
	}
	return n
}

// Clone returns an independent copy of p.
func (p Program) Clone() Program {
	return append(Program(nil), p...)
}

// ParseProgram reads the wire form. Flips accept 1 to 3 repetitions, spins
// and rotations accept 1, 2 or 3.
func ParseProgram(s string) (Program, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrProgram, len(s))
	}
	out := make(Program, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		k := Kind(s[i])
		if k != Flip && k != Spin && k != Rotate {
			return nil, fmt.Errorf("%w: unknown motion %q at %d", ErrProgram, s[i], i)
		}
		d := s[i+1]
		if d < '1' || d > '3' {
			return nil, fmt.Errorf("%w: bad digit %q at %d", ErrProgram, d, i+1)
		}
		out = append(out, Primitive{k, d - '0'})
	}
	return out, nil
}

func mustParse(s string) Program {
	p, err := ParseProgram(s)
	if err != nil {
		panic(err)
	}
	return p
}
