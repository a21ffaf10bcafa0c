package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/cmd/internal/cliutil"
)

// palette styles terminal output. The zero palette renders plain text.
type palette struct {
	enabled bool
	title   lipgloss.Style
	module  lipgloss.Style
	inst    lipgloss.Style
	dim     lipgloss.Style
	errs    lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	return palette{
		enabled: true,
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")),
		module:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		inst:    lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		errs:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
	}
}

// palette returns the styling for stdout.
func (c *cli) palette() palette {
	return newPalette(cliutil.ColorEnabled(c.stdout, c.NoColor))
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

func (p palette) severity(sev svmodel.Severity, text string) string {
	switch sev {
	case svmodel.SeverityFatal, svmodel.SeverityError:
		return p.render(p.errs, text)
	case svmodel.SeverityWarning:
		return p.render(p.warn, text)
	default:
		return p.render(p.info, text)
	}
}
