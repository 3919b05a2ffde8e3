package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	labelStyle         = lipgloss.NewStyle().Bold(true).Width(13)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	doneStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	idPrefixStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpBarStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	detailStyle        = lipgloss.NewStyle().PaddingLeft(4)
)
