// SPDX-License-Identifier: Apache-2.0

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	serverNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	identifierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	footerKeyStyle = lipgloss.NewStyle().Inherit(footerStyle).Foreground(lipgloss.Color("39"))
)
