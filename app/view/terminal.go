package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#0969DA")
	accentColor  = lipgloss.Color("#2DA44E")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
	linkColor    = lipgloss.Color("#58A6FF")
	dateColor    = lipgloss.Color("#A371F7")
	sourceColor  = lipgloss.Color("#FFA657")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	IndexStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Width(4).
			Align(lipgloss.Right)

	DateStyle = lipgloss.NewStyle().
			Foreground(dateColor)

	SourceStyle = lipgloss.NewStyle().
			Foreground(sourceColor)

	LinkStyle = lipgloss.NewStyle().
			Foreground(linkColor).
			Underline(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// Terminal renders views for a terminal of the given width.
type Terminal struct {
	width int
}

func NewTerminal(width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{width: width}
}

func (t *Terminal) Header(title string) string {
	return HeaderStyle.Render(title)
}

// List renders one block per summary, numbered from 1.
func (t *Terminal) List(summaries []Summary) string {
	if len(summaries) == 0 {
		return DimStyle.Render("No articles")
	}

	textWidth := t.width - 6
	var b strings.Builder
	for i, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}

		meta := DateStyle.Render(s.PublishedLabel)
		if s.SourceName != "" {
			meta += DimStyle.Render(" · ") + SourceStyle.Render(s.SourceName)
		}

		body := lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Width(textWidth).Render(title),
			meta,
		)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, IndexStyle.Render(fmt.Sprintf("%d.", i+1)), " ", body))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Terminal) Detail(d Detail, content string) string {
	textWidth := t.width - 2
	block := lipgloss.NewStyle().Width(textWidth)

	lines := []string{
		TitleStyle.Width(textWidth).Render(d.Title),
		DateStyle.Render(d.PublishedLabel),
	}
	if d.Author != "" || d.SourceName != "" {
		lines = append(lines, SourceStyle.Render(strings.TrimPrefix(d.Author+" · "+d.SourceName, " · ")))
	}
	lines = append(lines, "", block.Render(d.Description))
	if content != "" {
		lines = append(lines, "", block.Render(content))
	}
	if d.URL != "" {
		lines = append(lines, "", LinkStyle.Render(d.URL))
	}
	lines = append(lines, DimStyle.Render("Image: "+d.ImageURL))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (t *Terminal) Error(err error) string {
	return ErrorStyle.Render("Error: ") + err.Error()
}
