package robot

import "github.com/AndreaFavero71/cubotino-pocket/internal/cube"

// substitutions swap a face for its opposite throughout a solution. Turning
// the opposite layer leaves the same corners in the same relative state, and
// the tracker re-anchors on the reference corner, so the swapped solution
// solves the cube with the same number of moves.
var substitutions = [][]cube.Face{
	{cube.U},
	{cube.R},
	{cube.F},
	{cube.U, cube.R},
	{cube.U, cube.F},
	{cube.R, cube.F},
}

// Alternates returns moves followed by each distinct opposite-face variant.
// A variant is only produced when moves turns every face it swaps.
func Alternates(moves []cube.Move) [][]cube.Move {
	out := [][]cube.Move{moves}
	var present [cube.NumFaces]bool
	for _, m := range moves {
		present[m.Face()] = true
	}
	for _, sub := range substitutions {
		ok := true
		var swap [cube.NumFaces]bool
		for _, f := range sub {
			ok = ok && present[f]
			swap[f] = true
		}
		if !ok {
			continue
		}
		alt := make([]cube.Move, len(moves))
		for i, m := range moves {
			if swap[m.Face()] {
				m = cube.NewMove(m.Face().Opposite(), m.Amount())
			}
			alt[i] = m
		}
		if !containsMoves(out, alt) {
			out = append(out, alt)
		}
	}
	return out
}

func containsMoves(list [][]cube.Move, moves []cube.Move) bool {
	for _, l := range list {
		if len(l) != len(moves) {
			continue
		}
		same := true
		for i := range l {
			if l[i] != moves[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
