// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette. Each color has a light and a dark terminal variant.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
)

var (
	// TitleStyle heads a block of output such as "Current Configuration".
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	// SubtitleStyle marks annotations like "(using defaults)".
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	// SuccessStyle marks values and completed actions.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	// KeyStyle marks config keys and core names.
	KeyStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
)
