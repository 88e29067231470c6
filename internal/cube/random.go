package cube

import "math/rand/v2"

// Random returns a uniformly distributed reachable cube in the reference
// orientation (DBL in place).
func Random(r *rand.Rand) Facelets {
	return FromCoords(r.IntN(NumPerm), r.IntN(NumTwist)).Facelets()
}

// Scramble applies n random generator moves to the solved cube, never
// turning the same face twice in a row.
func Scramble(r *rand.Rand, n int) ([]Move, Facelets) {
	moves := make([]Move, 0, n)
	for len(moves) < n {
		m := Move(r.IntN(NumGenerators))
		if len(moves) > 0 && moves[len(moves)-1].Face() == m.Face() {
			continue
		}
		moves = append(moves, m)
	}
	return moves, SolvedFacelets().ApplyMoves(moves)
}
