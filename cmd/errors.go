package cmd

import (
	"errors"
	"io/fs"

	"github.com/fulmenhq/dfrecon/internal/pipeline"
	"github.com/fulmenhq/dfrecon/pkg/classify"
	"github.com/fulmenhq/dfrecon/pkg/config"
	"github.com/fulmenhq/dfrecon/pkg/exitcode"
	"github.com/fulmenhq/dfrecon/pkg/manifest"
	"github.com/fulmenhq/dfrecon/pkg/report"
	"github.com/fulmenhq/dfrecon/pkg/scanner"
)

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, pipeline.ErrStaleEntries):
		return exitcode.StaleEntries
	case errors.Is(err, config.ErrInvalid):
		return exitcode.ConfigError
	case errors.Is(err, report.ErrUnsupportedFormat):
		return exitcode.UnsupportedFormat
	case errors.Is(err, fs.ErrPermission):
		return exitcode.PermissionError
	case errors.Is(err, manifest.ErrUnreadable),
		errors.Is(err, scanner.ErrMissingRoot),
		errors.Is(err, pipeline.ErrWrite):
		return exitcode.FileSystemError
	case errors.Is(err, manifest.ErrMalformed),
		errors.Is(err, manifest.ErrSchema),
		errors.Is(err, classify.ErrUnclassifiable),
		errors.Is(err, scanner.ErrShallowPath):
		return exitcode.ValidationError
	default:
		return exitcode.GeneralError
	}
}
