package cube

import "fmt"

// Decode turns stickers into the cubie state relative to the DBL corner.
// The letters do not need to match the solved orientation: the colors found
// on the DBL position name D, B and L, and their opposites name U, F and R.
func Decode(f Facelets) (Cubie, error) {
	var c Cubie

	var opposite [NumFaces]Face
	var touches [NumFaces][NumFaces]bool
	for _, pos := range cornerFacelet {
		a, b, d := f[pos[0]], f[pos[1]], f[pos[2]]
		if a == b || b == d || a == d {
			return c, fmt.Errorf("%w: corner shows one color twice", ErrUnreachable)
		}
		touches[a][b], touches[b][a] = true, true
		touches[a][d], touches[d][a] = true, true
		touches[b][d], touches[d][b] = true, true
	}
	for x := 0; x < NumFaces; x++ {
		found := -1
		for y := 0; y < NumFaces; y++ {
			if y == x || touches[x][y] {
				continue
			}
			if found >= 0 {
				return c, fmt.Errorf("%w: %s has no single opposite color", ErrUnreachable, Face(x))
			}
			found = y
		}
		if found < 0 {
			return c, fmt.Errorf("%w: %s touches every color", ErrUnreachable, Face(x))
		}
		opposite[x] = Face(found)
	}

	ref := cornerFacelet[DBL]
	var relabel [NumFaces]Face
	var assigned [NumFaces]bool
	for _, pair := range [3][2]Face{
		{f[ref[0]], D}, {f[ref[1]], B}, {f[ref[2]], L},
	} {
		color, face := pair[0], pair[1]
		for _, p := range [2][2]Face{{color, face}, {opposite[color], face.Opposite()}} {
			if assigned[p[0]] {
				return c, fmt.Errorf("%w: DBL colors share an axis", ErrUnreachable)
			}
			assigned[p[0]] = true
			relabel[p[0]] = p[1]
		}
	}

	var g Facelets
	for i, x := range f {
		g[i] = relabel[x]
	}

	for i := 0; i < NumCorners; i++ {
		pos := cornerFacelet[i]
		ori := uint8(0)
		for ori < 3 && g[pos[ori]] != U && g[pos[ori]] != D {
			ori++
		}
		if ori == 3 {
			return c, fmt.Errorf("%w: corner %s has no U or D sticker", ErrUnreachable, Corner(i))
		}
		top := g[pos[ori]]
		col1 := g[pos[(ori+1)%3]]
		col2 := g[pos[(ori+2)%3]]
		j := -1
		for k, colors := range cornerColor {
			if colors[0] == top && colors[1] == col1 && colors[2] == col2 {
				j = k
				break
			}
		}
		if j < 0 {
			return c, fmt.Errorf("%w: no cubie matches corner %s", ErrUnreachable, Corner(i))
		}
		c.CP[i] = Corner(j)
		c.CO[i] = ori
	}

	if err := c.Verify(); err != nil {
		return c, err
	}
	return c, nil
}

// DecodeString parses and decodes a facelet string.
func DecodeString(s string) (Cubie, error) {
	f, err := ParseFacelets(s)
	if err != nil {
		return Cubie{}, err
	}
	return Decode(f)
}
