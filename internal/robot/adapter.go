package robot

import (
	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// sequences[side][amount-1] turns the face on side by amount. Every entry
// brings the face to Down, turns the holder and leaves the cube ready for
// the next flip.
var sequences = [NumSides][3]Program{
	Up:    {mustParse("F2R1S3"), mustParse("F2R1S3R1S3"), mustParse("F2S1R3")},
	Right: {mustParse("S3F1R1"), mustParse("S3F1R1S3R1"), mustParse("S1F3R3")},
	Front: {mustParse("F1R1S3"), mustParse("F1R1S3R1S3"), mustParse("F1S1R3")},
	Down:  {mustParse("R1S3"), mustParse("R1S3R1S3"), mustParse("S1R3")},
	Left:  {mustParse("S3F3R1"), mustParse("S3F3R1S3R1"), mustParse("S1F1R3")},
	Back:  {mustParse("F3R1S3"), mustParse("F3R1S3R1S3"), mustParse("F3S1R3")},
}

// Sequence returns the primitives that turn the face on side s by a.
func Sequence(s Side, a cube.Amount) Program {
	return sequences[s][a-1].Clone()
}

// AdaptMove finds the robot side holding the move's face.
func AdaptMove(t *Tracker, m cube.Move) (Side, cube.Amount, error) {
	s, err := t.SideOf(m.Face())
	if err != nil {
		return 0, 0, err
	}
	return s, m.Amount(), nil
}

// Translate converts moves into a robot program, updating t after every
// primitive. The result is not optimized.
func Translate(moves []cube.Move, t *Tracker) (Program, error) {
	var prog Program
	for _, m := range moves {
		s, a, err := AdaptMove(t, m)
		if err != nil {
			return nil, err
		}
		seq := sequences[s][a-1]
		for _, p := range seq {
			t.Apply(p)
		}
		prog = append(prog, seq...)
	}
	return prog, nil
}
