package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("9")
	colorOrange = lipgloss.Color("208")
	colorYellow = lipgloss.Color("11")
	colorGreen  = lipgloss.Color("10")
	colorBlue   = lipgloss.Color("12")
	colorPurple = lipgloss.Color("13")
	colorGray   = lipgloss.Color("245")

	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	subtleStyle   = lipgloss.NewStyle().Foreground(colorGray)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Width(22)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func tagStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
