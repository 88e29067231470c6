package robot

import "time"

// Estimator predicts how long the robot needs to run a program.
type Estimator interface {
	Estimate(prog Program) time.Duration
}

// ServoTiming estimates run time from fixed per-motion durations.
type ServoTiming struct {
	Flip   time.Duration // one flip
	Spin   time.Duration // one quarter spin
	Rotate time.Duration // one quarter layer turn, including the re-grip
	Settle time.Duration // pause after every primitive
}

// DefaultTiming returns typical durations for the stock servos.
func DefaultTiming() ServoTiming {
	return ServoTiming{
		Flip:   600 * time.Millisecond,
		Spin:   450 * time.Millisecond,
		Rotate: 550 * time.Millisecond,
		Settle: 50 * time.Millisecond,
	}
}

// Estimate sums the durations of every primitive in prog.
func (s ServoTiming) Estimate(prog Program) time.Duration {
	var d time.Duration
	for _, p := range prog {
		switch p.Kind {
		case Flip:
			d += time.Duration(p.N) * s.Flip
		case Spin:
			d += quarters(p.N) * s.Spin
		case Rotate:
			d += quarters(p.N) * s.Rotate
		}
		d += s.Settle
	}
	return d
}

func quarters(n uint8) time.Duration {
	if n == 2 {
		return 2
	}
	return 1
}

// MoveCount is an Estimator that charges one unit per servo action, useful
// when timings are unknown.
type MoveCount struct {
	Unit time.Duration
}

// Estimate returns the robot move count times the unit.
func (m MoveCount) Estimate(prog Program) time.Duration {
	return time.Duration(prog.RobotMoves()) * m.Unit
}
