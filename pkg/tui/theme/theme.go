package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pitstop/pkg/msglist"
	"tableflip.dev/pitstop/pkg/notify"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Tabs   TabsTheme
	Badge  map[notify.Tone]lipgloss.Style
	Panel  PanelTheme
	Modal  ModalTheme
	Cards  msglist.Styles
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// TabsTheme styles the category switcher.
type TabsTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Filter   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
}

// ModalTheme styles centered modal overlays (confirm prompts, composer).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	active := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true).
		Underline(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
		Tabs: TabsTheme{
			Active:   active,
			Inactive: inactive,
			Filter:   lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		},
		Badge: map[notify.Tone]lipgloss.Style{
			notify.Neutral: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			notify.Alert: lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("160")).
				Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("212")).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Cards: msglist.DefaultStyles(),
	}
}
