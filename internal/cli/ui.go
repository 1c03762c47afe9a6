package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleName   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleLayer  = lipgloss.NewStyle().Foreground(colorYellow)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// num formats a float compactly for display.
func num(v float64) string {
	return styleNumber.Render(strconv.FormatFloat(v, 'g', 6, 64))
}

// hexColor formats a packed ABGR color as #RRGGBBAA.
func hexColor(c uint32) string {
	r, g, b, a := c&0xFF, (c>>8)&0xFF, (c>>16)&0xFF, c>>24
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}
