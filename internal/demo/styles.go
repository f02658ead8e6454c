package demo

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yeeaiclub/fastoverlay"
)

var (
	primary = lipgloss.Color("212")
	muted   = lipgloss.Color("241")
	danger  = lipgloss.Color("196")
	info    = lipgloss.Color("45")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(primary).Bold(true).PaddingLeft(2)
	backdrop     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	dialogTitle  = lipgloss.NewStyle().Bold(true)
)

// boxStyle picks the dialog frame for its transition state; animating
// dialogs draw a muted frame.
func boxStyle(state fastoverlay.State, static, focused bool) lipgloss.Style {
	border := info
	if static {
		border = danger
	}
	switch state {
	case fastoverlay.Entering, fastoverlay.Exiting:
		border = muted
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}
	return style
}
