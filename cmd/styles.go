package cmd

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#4F7CAC")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	subtleColor  = lipgloss.Color("#888888")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)

	labelStyle = lipgloss.NewStyle().
			Width(28).
			PaddingRight(2)

	amountStyle = lipgloss.NewStyle().
			Width(16).
			Align(lipgloss.Right)

	totalStyle = lipgloss.NewStyle().Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)
)

func formatSuccess(msg string) string { return successStyle.Render("✓ " + msg) }
func formatWarning(msg string) string { return warningStyle.Render("! " + msg) }

// renderBox frames content under a bold title.
func renderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", content))
}

// row renders one label/amount line of a breakdown table.
func row(label, amount string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), amountStyle.Render(amount))
}
