package report

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
)

//go:embed templates/report.html
var htmlTemplate string

// writeHTML renders r through the embedded Handlebars template. Values are
// HTML-escaped by the template engine.
func writeHTML(w io.Writer, r Report) error {
	out, err := raymond.Render(htmlTemplate, htmlContext(r))
	if err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func htmlContext(r Report) map[string]interface{} {
	return map[string]interface{}{
		"manifest": r.Manifest,
		"root":     r.Root,
		"output":   r.Output,
		"dryRun":   r.DryRun,
		"declared": r.Declared,
		"onDisk":   r.OnDisk,
		"sections": []map[string]interface{}{
			htmlSection("To remove", r.ToRemove),
			htmlSection("To add", r.ToAdd),
		},
	}
}

func htmlSection(title string, entries []reconcile.Entry) map[string]interface{} {
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{"tenant": e.Tenant, "type": e.Type, "name": e.Name})
	}
	return map[string]interface{}{
		"title":   title,
		"count":   len(entries),
		"entries": rows,
	}
}
