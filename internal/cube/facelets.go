package cube

import (
	"fmt"
	"strings"
)

// NumFacelets is the number of stickers on a 2x2x2 cube.
const NumFacelets = 24

// Facelets holds the sticker colors of a cube in URFDLB order. Each face
// occupies four consecutive entries laid out as
//
//	0 1
//	2 3
//
// seen from outside the cube, with U and D read with F towards D's top edge
// and B towards U's top edge.
type Facelets [NumFacelets]Face

// SolvedFacelets returns the facelets of a solved cube.
func SolvedFacelets() Facelets {
	var f Facelets
	for i := range f {
		f[i] = Face(i / 4)
	}
	return f
}

// SolvedString is the facelet string of a solved cube.
const SolvedString = "UUUURRRRFFFFDDDDLLLLBBBB"

// ParseFacelets validates a 24-letter facelet string and returns its
// stickers. It only checks length, alphabet and letter counts.
func ParseFacelets(s string) (Facelets, error) {
	var f Facelets
	if len(s) != NumFacelets {
		return f, fmt.Errorf("%w: %d letters, want %d", ErrMalformed, len(s), NumFacelets)
	}
	var count [NumFaces]int
	for i := 0; i < NumFacelets; i++ {
		face, ok := ParseFace(s[i])
		if !ok {
			return f, fmt.Errorf("%w: unexpected letter %q at %d", ErrMalformed, s[i], i)
		}
		f[i] = face
		count[face]++
	}
	for face, n := range count {
		if n != 4 {
			return f, fmt.Errorf("%w: %s appears %d times", ErrMalformed, Face(face), n)
		}
	}
	return f, nil
}

// String returns the 24-letter facelet string.
func (f Facelets) String() string {
	var sb strings.Builder
	sb.Grow(NumFacelets)
	for _, c := range f {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// IsSolved reports whether f equals the solved cube in its reference
// orientation.
func (f Facelets) IsSolved() bool {
	return f == SolvedFacelets()
}

// IsUniform reports whether every face shows a single color, in whatever
// orientation the cube is held.
func (f Facelets) IsUniform() bool {
	for face := 0; face < NumFaces; face++ {
		c := f[4*face]
		for i := 1; i < 4; i++ {
			if f[4*face+i] != c {
				return false
			}
		}
	}
	return true
}

// Face returns the four stickers of face x.
func (f Facelets) Face(x Face) [4]Face {
	var out [4]Face
	copy(out[:], f[4*int(x):4*int(x)+4])
	return out
}

// Perm is a sticker permutation: after applying p, position i holds the
// sticker that was at p[i].
type Perm [NumFacelets]uint8

// IdentityPerm returns the permutation that moves nothing.
func IdentityPerm() Perm {
	var p Perm
	for i := range p {
		p[i] = uint8(i)
	}
	return p
}

// Apply permutes the stickers of f by p.
func (f Facelets) Apply(p Perm) Facelets {
	var out Facelets
	for i, src := range p {
		out[i] = f[src]
	}
	return out
}

// Then returns the permutation equal to applying p first and q second.
func (p Perm) Then(q Perm) Perm {
	var out Perm
	for i, src := range q {
		out[i] = p[src]
	}
	return out
}

// Inverse returns the permutation undoing p.
func (p Perm) Inverse() Perm {
	var out Perm
	for i, src := range p {
		out[src] = uint8(i)
	}
	return out
}

// Power returns p applied n times.
func (p Perm) Power(n int) Perm {
	out := IdentityPerm()
	for i := 0; i < n; i++ {
		out = out.Then(p)
	}
	return out
}

// quarterTurns holds the clockwise quarter turn of each face.
var quarterTurns = [NumFaces]Perm{
	U: {2, 0, 3, 1, 20, 21, 6, 7, 4, 5, 10, 11, 12, 13, 14, 15, 8, 9, 18, 19, 16, 17, 22, 23},
	R: {0, 9, 2, 11, 6, 4, 7, 5, 8, 13, 10, 15, 12, 22, 14, 20, 16, 17, 18, 19, 3, 21, 1, 23},
	F: {0, 1, 19, 17, 2, 5, 3, 7, 10, 8, 11, 9, 6, 4, 14, 15, 16, 12, 18, 13, 20, 21, 22, 23},
	D: {0, 1, 2, 3, 4, 5, 10, 11, 8, 9, 18, 19, 14, 12, 15, 13, 16, 17, 22, 23, 20, 21, 6, 7},
	L: {23, 1, 21, 3, 4, 5, 6, 7, 0, 9, 2, 11, 8, 13, 10, 15, 18, 16, 19, 17, 20, 14, 22, 12},
	B: {5, 7, 2, 3, 4, 15, 6, 14, 8, 9, 10, 11, 12, 13, 16, 18, 1, 17, 0, 19, 22, 20, 23, 21},
}

var movePerms [NumMoves]Perm

func init() {
	for m := Move(0); m < NumMoves; m++ {
		movePerms[m] = quarterTurns[m.Face()].Power(int(m.Amount()))
	}
}

// MovePerm returns the sticker permutation of move m.
func MovePerm(m Move) Perm {
	return movePerms[m]
}

// ApplyMove turns one layer of f.
func (f Facelets) ApplyMove(m Move) Facelets {
	return f.Apply(movePerms[m])
}

// ApplyMoves turns the layers of f in order.
func (f Facelets) ApplyMoves(moves []Move) Facelets {
	for _, m := range moves {
		f = f.Apply(movePerms[m])
	}
	return f
}
