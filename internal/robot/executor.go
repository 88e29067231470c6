package robot

import "context"

// Executor runs a program on a manipulator, real or simulated.
type Executor interface {
	Execute(ctx context.Context, prog Program) error
}

// Execute replays prog one primitive at a time, stopping early when ctx is
// done.
func (v *VirtualRobot) Execute(ctx context.Context, prog Program) error {
	for _, p := range prog {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Step(p)
	}
	return nil
}

// Step performs a single primitive.
func (v *VirtualRobot) Step(p Primitive) {
	v.cube = v.cube.Apply(PrimitivePerm(p))
	v.moves += p.Cost()
}
