package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/micube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// stickerStyles colors one sticker cell per cube color.
var stickerStyles = map[micube.Color]lipgloss.Style{
	micube.Blue:   stickerStyle("21", "15"),
	micube.Yellow: stickerStyle("226", "0"),
	micube.Orange: stickerStyle("208", "0"),
	micube.White:  stickerStyle("255", "0"),
	micube.Red:    stickerStyle("196", "15"),
	micube.Green:  stickerStyle("34", "15"),
}

func stickerStyle(bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg))
}

// renderSticker returns a three-column cell for one sticker.
func renderSticker(c micube.Color, plain bool) string {
	cell := " " + c.String() + " "
	if plain {
		return cell
	}
	style, ok := stickerStyles[c]
	if !ok {
		return cell
	}
	return style.Render(cell)
}

// renderNet draws the cube as an unfolded net with U on top, L F R B in the
// middle band and D at the bottom.
func renderNet(c micube.Cube, plain bool) string {
	grids := c.Faces()
	indent := strings.Repeat(" ", 9)
	var b strings.Builder

	writeRow := func(face micube.Face, row int) {
		for col := 0; col < 3; col++ {
			b.WriteString(renderSticker(grids[face][row][col], plain))
		}
	}

	for row := 0; row < 3; row++ {
		b.WriteString(indent)
		writeRow(micube.FaceU, row)
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		for _, face := range []micube.Face{micube.FaceL, micube.FaceF, micube.FaceR, micube.FaceB} {
			writeRow(face, row)
		}
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		b.WriteString(indent)
		writeRow(micube.FaceD, row)
		b.WriteByte('\n')
	}

	return b.String()
}
