package tables

import (
	"fmt"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// BuildPermMove computes the permutation transition table.
func BuildPermMove() []uint16 {
	out := make([]uint16, cube.NumPerm*cube.NumGenerators)
	for i := 0; i < cube.NumPerm; i++ {
		c := cube.SolvedCubie()
		c.SetPerm(i)
		for m := cube.Move(0); m < cube.NumGenerators; m++ {
			out[cube.NumGenerators*i+int(m)] = uint16(c.Move(m).Perm())
		}
	}
	return out
}

// BuildTwistMove computes the twist transition table.
func BuildTwistMove() []uint16 {
	out := make([]uint16, cube.NumTwist*cube.NumGenerators)
	for i := 0; i < cube.NumTwist; i++ {
		c := cube.SolvedCubie()
		c.SetTwist(i)
		for m := cube.Move(0); m < cube.NumGenerators; m++ {
			out[cube.NumGenerators*i+int(m)] = uint16(c.Move(m).Twist())
		}
	}
	return out
}

// BuildPrune fills the distance table layer by layer, starting from the
// solved state. Every state must receive a depth; a layer that adds nothing
// before that means the move tables are wrong.
func BuildPrune(permMove, twistMove []uint16, metric Metric) ([]int8, error) {
	if len(permMove) != cube.NumPerm*cube.NumGenerators || len(twistMove) != cube.NumTwist*cube.NumGenerators {
		return nil, fmt.Errorf("%w: move table sizes %d and %d", ErrCorrupt, len(permMove), len(twistMove))
	}
	var moves []int
	for m := cube.Move(0); m < cube.NumGenerators; m++ {
		if metric.Allows(m) {
			moves = append(moves, int(m))
		}
	}

	prune := make([]int8, cube.NumStates)
	for i := range prune {
		prune[i] = -1
	}
	prune[0] = 0
	done := 1
	for depth := int8(0); done < cube.NumStates; depth++ {
		added := 0
		for perm := 0; perm < cube.NumPerm; perm++ {
			row := cube.NumTwist * perm
			for twist := 0; twist < cube.NumTwist; twist++ {
				if prune[row+twist] != depth {
					continue
				}
				for _, m := range moves {
					perm1 := int(permMove[cube.NumGenerators*perm+m])
					twist1 := int(twistMove[cube.NumGenerators*twist+m])
					idx := cube.Index(perm1, twist1)
					if prune[idx] == -1 {
						prune[idx] = depth + 1
						added++
					}
				}
			}
		}
		if added == 0 {
			return nil, fmt.Errorf("%w: %d of %d states unreachable after depth %d",
				ErrCorrupt, cube.NumStates-done, cube.NumStates, depth)
		}
		done += added
	}
	return prune, nil
}

// Build computes every table for the metric in memory.
func Build(metric Metric) (*Tables, error) {
	t := &Tables{
		Metric:    metric,
		PermMove:  BuildPermMove(),
		TwistMove: BuildTwistMove(),
	}
	prune, err := BuildPrune(t.PermMove, t.TwistMove, metric)
	if err != nil {
		return nil, err
	}
	t.Prune = prune
	return t, nil
}
