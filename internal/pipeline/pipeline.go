// Package pipeline runs one reconciliation: read the manifest, scan the
// tree, compute the differences, merge and write the updated manifest.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/dfrecon/pkg/classify"
	"github.com/fulmenhq/dfrecon/pkg/logger"
	"github.com/fulmenhq/dfrecon/pkg/manifest"
	"github.com/fulmenhq/dfrecon/pkg/merge"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
	"github.com/fulmenhq/dfrecon/pkg/report"
	"github.com/fulmenhq/dfrecon/pkg/scanner"
)

// ErrStaleEntries is returned, together with a complete Outcome, when
// FailOnStale is set and the manifest declares resources missing on disk.
var ErrStaleEntries = errors.New("manifest declares resources missing on disk")

// ErrWrite wraps failures to persist the merged manifest.
var ErrWrite = errors.New("write manifest")

// Options describe one run.
type Options struct {
	Input  string
	Root   string
	Output string
	// DryRun computes and reports everything but writes nothing.
	DryRun bool
	// FailOnStale turns a non-empty ToRemove into ErrStaleEntries after the
	// output has been written.
	FailOnStale bool
	Scan        scanner.Options
}

// Outcome is everything a run produced.
type Outcome struct {
	Result   reconcile.Result
	Declared int
	OnDisk   int
	// Source is the manifest as read.
	Source *manifest.DataFetch
	// Manifest is the merged document; nil after Diff.
	Manifest *manifest.DataFetch
	Written  bool
}

// Report converts the outcome into its operator-facing summary.
func (o *Outcome) Report(opts Options) report.Report {
	r := report.Report{
		Manifest: opts.Input,
		Root:     opts.Root,
		DryRun:   opts.DryRun,
		Declared: o.Declared,
		OnDisk:   o.OnDisk,
		ToRemove: o.Result.ToRemove,
		ToAdd:    o.Result.ToAdd,
	}
	if o.Written {
		r.Output = opts.Output
	}
	return r
}

// Runner executes runs with a fixed codec.
type Runner struct {
	codec manifest.Codec
}

// NewRunner returns a Runner.
func NewRunner() *Runner {
	return &Runner{codec: manifest.NewCodec()}
}

// Diff reads and scans both sides and reconciles them without merging.
// The tree is not touched when the manifest cannot be loaded.
func (r *Runner) Diff(opts Options) (*Outcome, error) {
	doc, declared, err := r.load(opts.Input)
	if err != nil {
		return nil, err
	}
	actual, err := r.scan(opts)
	if err != nil {
		return nil, err
	}

	res := reconcile.Reconcile(declared, actual)
	logger.Info("Reconciled manifest against tree",
		logger.Int("declared", declared.Len()),
		logger.Int("on_disk", actual.Len()),
		logger.Int("to_add", len(res.ToAdd)),
		logger.Int("to_remove", len(res.ToRemove)))
	for _, e := range res.ToRemove {
		logger.Warn("Declared resource missing on disk", logger.String("resource", e.Name), logger.String("tenant", e.Tenant))
	}

	return &Outcome{
		Result:   res,
		Declared: declared.Len(),
		OnDisk:   actual.Len(),
		Source:   doc,
	}, nil
}

// Run performs a full reconciliation. When it returns an error other than
// ErrStaleEntries, nothing has been written.
func (r *Runner) Run(opts Options) (*Outcome, error) {
	out, err := r.Diff(opts)
	if err != nil {
		return nil, err
	}

	out.Manifest = merge.Merge(out.Source, out.Result.ToAdd)

	if opts.DryRun {
		logger.Info("Dry run, manifest not written", logger.String("output", opts.Output), logger.Int("items", out.Manifest.Len()))
	} else {
		if err := r.codec.WriteFile(opts.Output, out.Manifest); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrWrite, opts.Output, err)
		}
		out.Written = true
		logger.Info("Manifest written", logger.String("output", opts.Output), logger.Int("items", out.Manifest.Len()))
	}

	if opts.FailOnStale && out.Result.HasStale() {
		return out, fmt.Errorf("%w: %d resource(s)", ErrStaleEntries, len(out.Result.ToRemove))
	}
	return out, nil
}

// Validate reads the manifest and classifies every item.
func (r *Runner) Validate(input string) (*manifest.DataFetch, error) {
	doc, _, err := r.load(input)
	return doc, err
}

func (r *Runner) load(input string) (*manifest.DataFetch, reconcile.Set, error) {
	doc, err := r.codec.ReadFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	logger.Debug("Manifest loaded", logger.String("path", input), logger.Int("items", doc.Len()))

	declared, err := classify.Entries(doc.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("classify manifest %s: %w", input, err)
	}
	return doc, declared, nil
}

func (r *Runner) scan(opts Options) (reconcile.Set, error) {
	scanOpts := opts.Scan
	if scanOpts.OnFile == nil {
		scanOpts.OnFile = func(rel string) { logger.Trace("Found file", logger.String("path", rel)) }
	}
	actual, err := scanner.Scan(opts.Root, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scan tree: %w", err)
	}
	logger.Debug("Tree scanned", logger.String("root", opts.Root), logger.Int("files", actual.Len()))
	return actual, nil
}
