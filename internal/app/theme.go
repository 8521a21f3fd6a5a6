package app

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	listItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(1)
	listSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236")).PaddingLeft(1)
	listMetaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true).PaddingLeft(1)
	listPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	editorPaneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dirtyBadgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	savingBadgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	cleanBadgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	statsCardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 2)
	statsValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Bold(true).Underline(true)
	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
)
