// Package exitcode provides the process exit codes of dfrecon
package exitcode

// Exit codes for the dfrecon CLI
const (
	Success           = 0
	GeneralError      = 1
	ConfigError       = 2
	ValidationError   = 3
	FileSystemError   = 4
	PermissionError   = 6
	UnsupportedFormat = 8
	StaleEntries      = 10
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case PermissionError:
		return "Permission error"
	case UnsupportedFormat:
		return "Unsupported format"
	case StaleEntries:
		return "Manifest declares resources missing on disk"
	default:
		return "Unknown error"
	}
}
