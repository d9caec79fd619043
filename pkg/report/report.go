// Package report renders the outcome of a reconciliation for operators.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/dfrecon/pkg/reconcile"
	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown names.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, json, yaml, toml or html)", ErrUnsupportedFormat, s)
	}
}

// Report summarises one run.
type Report struct {
	Manifest string            `json:"manifest" yaml:"manifest" toml:"manifest"`
	Root     string            `json:"root" yaml:"root" toml:"root"`
	Output   string            `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
	DryRun   bool              `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Declared int               `json:"declared" yaml:"declared" toml:"declared"`
	OnDisk   int               `json:"on_disk" yaml:"on_disk" toml:"on_disk"`
	ToRemove []reconcile.Entry `json:"to_remove" yaml:"to_remove" toml:"to_remove"`
	ToAdd    []reconcile.Entry `json:"to_add" yaml:"to_add" toml:"to_add"`
}

// Write renders r to w in the given format.
func Write(w io.Writer, r Report, format Format) error {
	if r.ToRemove == nil {
		r.ToRemove = []reconcile.Entry{}
	}
	if r.ToAdd == nil {
		r.ToAdd = []reconcile.Entry{}
	}

	switch format {
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	case FormatHTML:
		return writeHTML(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func writeText(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Manifest: %s (%d declared)\n", r.Manifest, r.Declared)
	fmt.Fprintf(&b, "Root: %s (%d on disk)\n", r.Root, r.OnDisk)
	writeSection(&b, "To remove", r.ToRemove)
	writeSection(&b, "To add", r.ToAdd)
	switch {
	case r.DryRun:
		b.WriteString("Dry run: manifest not written\n")
	case r.Output != "":
		fmt.Fprintf(&b, "Written: %s\n", r.Output)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, entries []reconcile.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", title, len(entries))

	rows := [][]string{{"TENANT", "TYPE", "RESOURCE"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Tenant, e.Type, e.Name})
	}
	widths := make([]int, 2)
	for _, row := range rows {
		for i := range widths {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	for _, row := range rows {
		b.WriteString("  ")
		for i := range widths {
			b.WriteString(runewidth.FillRight(row[i], widths[i]))
			b.WriteString("  ")
		}
		b.WriteString(row[2])
		b.WriteString("\n")
	}
}
