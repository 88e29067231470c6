package cube

const (
	// NumPerm is the number of permutations of the seven movable corners.
	NumPerm = 5040
	// NumTwist is the number of twist assignments (3^6).
	NumTwist = 729
	// NumStates is the size of the reachable state space.
	NumStates = NumPerm * NumTwist
)

// movable lists the positions that the generator moves can reach, in
// coordinate order. DBL is skipped.
var movable = [7]Corner{URF, UFL, ULB, UBR, DFR, DLF, DRB}

// rank maps a movable corner to its index in movable.
func rank(c Corner) int {
	if c == DRB {
		return 6
	}
	return int(c)
}

// Perm returns the permutation coordinate in [0, NumPerm). The solved
// permutation is 0.
func (c Cubie) Perm() int {
	var v [7]int
	for i, pos := range movable {
		v[i] = rank(c.CP[pos])
	}
	r := 0
	for i := 0; i < 7; i++ {
		k := 0
		for j := i + 1; j < 7; j++ {
			if v[j] < v[i] {
				k++
			}
		}
		r = r*(7-i) + k
	}
	return r
}

// SetPerm replaces the corner permutation of c with the one encoded by r.
// DBL stays in place.
func (c *Cubie) SetPerm(r int) {
	var digits [7]int
	for i := 6; i >= 0; i-- {
		digits[i] = r % (7 - i)
		r /= 7 - i
	}
	avail := []Corner{URF, UFL, ULB, UBR, DFR, DLF, DRB}
	for i, pos := range movable {
		d := digits[i]
		c.CP[pos] = avail[d]
		avail = append(avail[:d], avail[d+1:]...)
	}
	c.CP[DBL] = DBL
}

// Twist returns the twist coordinate in [0, NumTwist), a base-3 number over
// the first six corners. DRB's twist follows from the others.
func (c Cubie) Twist() int {
	r := 0
	for i := URF; i <= DLF; i++ {
		r = 3*r + int(c.CO[i])
	}
	return r
}

// SetTwist replaces the corner twists of c with the ones encoded by t.
func (c *Cubie) SetTwist(t int) {
	sum := 0
	for i := DLF; ; i-- {
		c.CO[i] = uint8(t % 3)
		t /= 3
		sum += int(c.CO[i])
		if i == URF {
			break
		}
	}
	c.CO[DBL] = 0
	c.CO[DRB] = uint8((3 - sum%3) % 3)
}

// FromCoords builds the cubie state with the given coordinates.
func FromCoords(perm, twist int) Cubie {
	var c Cubie
	c.SetPerm(perm)
	c.SetTwist(twist)
	return c
}

// Index combines the two coordinates into a single state index.
func Index(perm, twist int) int {
	return NumTwist*perm + twist
}
