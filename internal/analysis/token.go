// Package analysis computes statistics over batches of robot programs:
// robot move distributions, primitive mix, optimizer savings and the most
// frequent primitive sequences.
package analysis

import "github.com/AndreaFavero71/cubotino-pocket/internal/robot"

// numTokens is the size of the primitive alphabet.
const numTokens = 9

var kinds = [3]robot.Kind{robot.Flip, robot.Spin, robot.Rotate}

// Token maps a primitive to 0..8: kind index times three plus N-1.
func Token(p robot.Primitive) uint8 {
	k := uint8(0)
	for i, kind := range kinds {
		if kind == p.Kind {
			k = uint8(i)
		}
	}
	return k*3 + p.N - 1
}

// PrimitiveFromToken is the inverse of Token.
func PrimitiveFromToken(t uint8) robot.Primitive {
	return robot.Primitive{Kind: kinds[t/3], N: t%3 + 1}
}

func tokens(prog robot.Program) []uint8 {
	out := make([]uint8, len(prog))
	for i, p := range prog {
		out[i] = Token(p)
	}
	return out
}
