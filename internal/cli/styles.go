package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	programStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Western color scheme.
var faceColors = [cube.NumFaces]lipgloss.Color{
	cube.U: "15",  // white
	cube.R: "196", // red
	cube.F: "34",  // green
	cube.D: "226", // yellow
	cube.L: "208", // orange
	cube.B: "21",  // blue
}

func sticker(f cube.Face) string {
	return lipgloss.NewStyle().Background(faceColors[f]).Foreground(lipgloss.Color("0")).Render(" " + f.String() + " ")
}

// renderNet draws the cube as an unfolded net:
//
//	   U
//	L  F  R  B
//	   D
func renderNet(f cube.Facelets) string {
	row := func(faces []cube.Face, r int) string {
		var b strings.Builder
		for _, x := range faces {
			st := f.Face(x)
			b.WriteString(sticker(st[2*r]))
			b.WriteString(sticker(st[2*r+1]))
			b.WriteString(" ")
		}
		return strings.TrimRight(b.String(), " ")
	}
	pad := strings.Repeat(" ", 7)

	var b strings.Builder
	for r := 0; r < 2; r++ {
		b.WriteString(pad + row([]cube.Face{cube.U}, r) + "\n")
	}
	for r := 0; r < 2; r++ {
		b.WriteString(row([]cube.Face{cube.L, cube.F, cube.R, cube.B}, r) + "\n")
	}
	for r := 0; r < 2; r++ {
		b.WriteString(pad + row([]cube.Face{cube.D}, r) + "\n")
	}
	return b.String()
}
