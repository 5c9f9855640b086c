// Package report prints a triage.Report for people (text) or programs
// (JSON, YAML).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/topicscan/internal/triage"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

type Renderer struct {
	Format Format
	// NoColor disables ANSI colors in text output. fatih/color already
	// turns them off when stdout is not a terminal.
	NoColor bool
}

func (r Renderer) Render(w io.Writer, rep *triage.Report) error {
	switch r.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		return r.renderText(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", r.Format)
	}
}

var labelColors = map[triage.Label]color.Attribute{
	triage.Definitely:   color.FgGreen,
	triage.Moderately:   color.FgCyan,
	triage.Barely:       color.FgYellow,
	triage.NotMentioned: color.FgWhite,
	triage.Unparseable:  color.FgMagenta,
}

func (r Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.NoColor {
		c.DisableColor()
	}
	return c
}

func (r Renderer) renderText(w io.Writer, rep *triage.Report) error {
	heading := r.paint(color.Bold)
	var sb strings.Builder

	sb.WriteString(heading.Sprint("Categorized Results:") + "\n")
	for _, l := range triage.Labels {
		files := rep.Categorized[l]
		list := "None"
		if len(files) > 0 {
			list = strings.Join(files, ", ")
		}
		fmt.Fprintf(&sb, "%s: %s\n", r.paint(labelColors[l], color.Bold).Sprint(l.Title()), list)
	}

	sb.WriteString("\n" + heading.Sprint("Detailed Results:") + "\n")
	ids := rep.DetailedOrder()
	if len(ids) == 0 {
		sb.WriteString("No relevant results found.\n")
	}
	for _, id := range ids {
		fmt.Fprintf(&sb, "File: %s\n", id)
		fmt.Fprintf(&sb, " - %s\n", strings.TrimSpace(rep.Detailed[id]))
	}

	if len(rep.Errors) > 0 {
		sb.WriteString("\n" + r.paint(color.FgRed, color.Bold).Sprint("Errors:") + "\n")
		for _, id := range rep.ErrorOrder() {
			fmt.Fprintf(&sb, "File: %s\n - %s\n", id, rep.Errors[id])
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
