package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"suppressaudit/suppress"
)

// Options controls text rendering.
type Options struct {
	NoColor bool
}

// palette holds the styles used by the text report. Colours are chosen by a
// renderer bound to the output, so writing to a pipe or buffer stays plain.
type palette struct {
	title    lipgloss.Style
	dir      lipgloss.Style
	file     lipgloss.Style
	dim      lipgloss.Style
	line     lipgloss.Style
	warn     lipgloss.Style
	ok       lipgloss.Style
	category map[suppress.Category]lipgloss.Style
}

func newPalette(w io.Writer, opts Options) palette {
	r := lipgloss.NewRenderer(w)
	if opts.NoColor {
		plain := r.NewStyle()
		p := palette{title: plain, dir: plain, file: plain, dim: plain, line: plain, warn: plain, ok: plain}
		p.category = make(map[suppress.Category]lipgloss.Style)
		for _, c := range suppress.Categories {
			p.category[c] = plain
		}
		return p
	}
	return palette{
		title: r.NewStyle().Bold(true),
		dir:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		file:  r.NewStyle().Bold(true),
		dim:   r.NewStyle().Faint(true),
		line:  r.NewStyle().Foreground(lipgloss.Color("14")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		category: map[suppress.Category]lipgloss.Style{
			suppress.BareMarker:        r.NewStyle().Foreground(lipgloss.Color("9")),
			suppress.AnnotationGeneric: r.NewStyle().Foreground(lipgloss.Color("13")),
			suppress.AnnotationVariant: r.NewStyle().Foreground(lipgloss.Color("5")),
			suppress.BracketAttribute:  r.NewStyle().Foreground(lipgloss.Color("3")),
			suppress.AngleAttribute:    r.NewStyle().Foreground(lipgloss.Color("6")),
		},
	}
}

func (p palette) categoryStyle(c suppress.Category) lipgloss.Style {
	if s, ok := p.category[c]; ok {
		return s
	}
	return p.dim
}
