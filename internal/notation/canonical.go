// Package notation converts move sequences between text and cube.Move.
//
// Two spellings are accepted and can be mixed: the digit form used in solver
// output ("U1 R3 F2") and standard notation ("U R' F2"). A trailing length
// marker such as "(3f)" or "(4q)" is ignored, so solver output parses back.
package notation

import (
	"fmt"
	"strings"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Style selects the output spelling.
type Style int

const (
	// Digits writes "U1 R3 F2".
	Digits Style = iota
	// Standard writes "U R' F2".
	Standard
)

// ParseMove parses one move token.
func ParseMove(s string) (cube.Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: empty move", cube.ErrMalformed)
	}

	face, ok := cube.ParseFace(upper(s[0]))
	if !ok {
		return 0, fmt.Errorf("%w: move %q: unknown face", cube.ErrMalformed, s)
	}

	amount := cube.CW
	switch s[1:] {
	case "", "1":
	case "'", "`", "3", "1'":
		amount = cube.CCW
	case "2", "2'":
		amount = cube.Half
	default:
		return 0, fmt.Errorf("%w: move %q: unknown turn", cube.ErrMalformed, s)
	}

	return cube.NewMove(face, amount), nil
}

// Parse parses a sequence separated by spaces or commas. Tokens may also be
// run together ("U1R3F2").
func Parse(s string) ([]cube.Move, error) {
	var moves []cube.Move
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	}) {
		if isLengthMarker(field) {
			continue
		}
		for _, tok := range split(field) {
			m, err := ParseMove(tok)
			if err != nil {
				return nil, err
			}
			moves = append(moves, m)
		}
	}
	return moves, nil
}

// split breaks a run-together field at every face letter.
func split(field string) []string {
	var out []string
	start := 0
	for i := 1; i < len(field); i++ {
		if _, ok := cube.ParseFace(upper(field[i])); ok {
			out = append(out, field[start:i])
			start = i
		}
	}
	return append(out, field[start:])
}

// isLengthMarker matches "(3f)", "(12q)" and the like.
func isLengthMarker(s string) bool {
	if len(s) < 4 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	unit := s[len(s)-2]
	if unit != 'f' && unit != 'q' {
		return false
	}
	for _, c := range s[1 : len(s)-2] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Format writes moves space-separated in the given style.
func Format(moves []cube.Move, style Style) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		if style == Standard {
			parts[i] = m.Notation()
		} else {
			parts[i] = m.String()
		}
	}
	return strings.Join(parts, " ")
}
