package robot

// Optimize applies the peephole passes: spin cancellation, then the final
// flip rewrite. It never changes the cube's solved end state and running it
// twice changes nothing further.
func Optimize(prog Program) Program {
	return RelaxFinalFlip(CancelSpins(prog))
}

// CancelSpins drops every clockwise spin directly followed by a
// counter-clockwise spin, or the reverse, including pairs that become
// adjacent once an inner pair is gone.
func CancelSpins(prog Program) Program {
	out := make(Program, 0, len(prog))
	for _, p := range prog {
		if n := len(out); n > 0 && p.Kind == Spin && out[n-1].Kind == Spin && cancels(out[n-1], p) {
			out = out[:n-1]
			continue
		}
		out = append(out, p)
	}
	return out
}

func cancels(a, b Primitive) bool {
	return (a.N == 1 && b.N == 3) || (a.N == 3 && b.N == 1)
}

// RelaxFinalFlip turns the program's last flip into a single flip when it
// is a triple one, whatever spins and rotations follow it. Every move
// sequence ends with a spin or a rotation, so the program never ends with
// the flip itself. The cube still ends with uniform faces, but in another
// orientation than the tracker assumed: never extend a relaxed program.
func RelaxFinalFlip(prog Program) Program {
	out := prog.Clone()
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Kind != Flip {
			continue
		}
		if out[i].N == 3 {
			out[i].N = 1
		}
		break
	}
	return out
}
