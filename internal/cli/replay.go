package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
)

var (
	replaySpeed float64
	replayStep  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <facelets>",
	Short: "Step through a robot program on a virtual cube",
	Long: `Plan the cube and play the chosen program one primitive at a time, showing
the cube as the robot holds it.

Keys:
  SPACE/n  next primitive       b  previous primitive
  p        play/pause           r  reset
  +/-      speed                q  quit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Start paused")
}

func runReplay(cmd *cobra.Command, args []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	res, err := s.Solve(facelets(args))
	if err != nil {
		return err
	}
	p, err := planResult(newPlanner(), res)
	if err != nil {
		return err
	}

	model := newReplayModel(res.Facelets, p, solver.Solution(p.Chosen().Moves).Format(s.Metric()), settings.Timing, replaySpeed, replayStep)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

// replayModel plays a program forward and backward. frames[i] is the cube
// after the first i primitives.
type replayModel struct {
	program  robot.Program
	solution string
	timing   robot.ServoTiming
	frames   []cube.Facelets
	trackers []robot.Tracker
	index    int
	speed    float64
	paused   bool
	quitting bool
}

func newReplayModel(f cube.Facelets, p *robot.Plan, solution string, timing robot.ServoTiming, speed float64, paused bool) *replayModel {
	prog := p.Chosen().Program
	m := &replayModel{
		program:  prog,
		solution: solution,
		timing:   timing,
		speed:    speed,
		paused:   paused,
	}
	v := robot.NewVirtualRobot(f, p.Layout)
	t := p.Layout.Tracker()
	m.frames = append(m.frames, v.Cube())
	m.trackers = append(m.trackers, t)
	for _, prim := range prog {
		v.Step(prim)
		t.Apply(prim)
		m.frames = append(m.frames, v.Cube())
		m.trackers = append(m.trackers, t)
	}
	return m
}

type replayTickMsg struct{}

func (m *replayModel) Init() tea.Cmd {
	if m.paused {
		return nil
	}
	return m.scheduleNext()
}

// scheduleNext waits as long as the robot would take for the next primitive.
func (m *replayModel) scheduleNext() tea.Cmd {
	if m.index >= len(m.program) {
		return nil
	}
	d := m.timing.Estimate(m.program[m.index : m.index+1])
	delay := time.Duration(float64(d) / m.speed)
	return tea.Tick(delay, func(time.Time) tea.Msg { return replayTickMsg{} })
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n":
			m.paused = true
			if m.index < len(m.program) {
				m.index++
			}

		case "b":
			m.paused = true
			if m.index > 0 {
				m.index--
			}

		case "p":
			m.paused = !m.paused
			if !m.paused {
				return m, m.scheduleNext()
			}

		case "r":
			m.index = 0
			m.paused = true

		case "+", "=":
			m.speed = min(m.speed*2, 16)

		case "-":
			m.speed = max(m.speed/2, 0.25)
		}

	case replayTickMsg:
		if !m.paused && m.index < len(m.program) {
			m.index++
			return m, m.scheduleNext()
		}
	}
	return m, nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cubotino Program Replay"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Step %d/%d", m.index, len(m.program))
	if m.paused {
		progress += " [PAUSED]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)\n", m.speed))
	b.WriteString(fmt.Sprintf("Solution: %s\n", moveStyle.Render(m.solution)))
	b.WriteString(fmt.Sprintf("Program:  %s\n", m.programView()))
	b.WriteString(fmt.Sprintf("Elapsed:  %s\n\n", m.timing.Estimate(m.program[:m.index]).Round(10*time.Millisecond)))

	b.WriteString(renderNet(m.frames[m.index]))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("Tracker: " + m.trackers[m.index].String()))
	b.WriteString("\n")
	if m.index == len(m.program) && m.frames[m.index].IsUniform() {
		b.WriteString(programStyle.Render("SOLVED!"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("SPACE/n=next  b=back  p=play/pause  r=reset  +/-=speed  q=quit"))
	b.WriteString("\n")
	return b.String()
}

// programView highlights the primitive about to run.
func (m *replayModel) programView() string {
	var b strings.Builder
	for i, p := range m.program {
		switch {
		case i < m.index:
			b.WriteString(statusStyle.Render(p.String()))
		case i == m.index:
			b.WriteString(programStyle.Render("[" + p.String() + "]"))
		default:
			b.WriteString(p.String())
		}
	}
	return b.String()
}
