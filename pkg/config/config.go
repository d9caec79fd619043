// Package config resolves dfrecon settings from defaults, an optional config
// file, DFRECON_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid marks configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix of environment overrides (DFRECON_ROOT, ...).
const EnvPrefix = "DFRECON"

// Config holds all configuration for a reconciliation run
type Config struct {
	Input       string     `mapstructure:"input"`
	Root        string     `mapstructure:"root"`
	Output      string     `mapstructure:"output"`
	Format      string     `mapstructure:"format"`
	DryRun      bool       `mapstructure:"dry_run"`
	FailOnStale bool       `mapstructure:"fail_on_stale"`
	Scan        ScanConfig `mapstructure:"scan"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// ScanConfig holds tree scanner options
type ScanConfig struct {
	Exclude          []string `mapstructure:"exclude"`
	IgnoreFile       string   `mapstructure:"ignore_file"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
}

var defaultConfig = Config{
	Input:  "xmlparsing.xml",
	Root:   "reconciler",
	Output: "xmlparsing-with-added.xml",
	Format: "text",
	Scan: ScanConfig{
		Exclude:    []string{},
		IgnoreFile: ".dfreconignore",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	c := defaultConfig
	c.Scan.Exclude = append([]string{}, defaultConfig.Scan.Exclude...)
	return c
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"input":             "input",
	"root":              "root",
	"output":            "output",
	"format":            "format",
	"dry-run":           "dry_run",
	"fail-on-stale":     "fail_on_stale",
	"exclude":           "scan.exclude",
	"ignore-file":       "scan.ignore_file",
	"respect-gitignore": "scan.respect_gitignore",
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// SearchDirs are searched, in order, for .dfrecon.yaml/.yml/.json/.toml
	// when ConfigFile is empty. Defaults to the working directory.
	SearchDirs []string
	// Flags, when set, are bound so that changed flags win over every
	// other source.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	file := opts.ConfigFile
	if file == "" {
		file = findConfigFile(opts.SearchDirs)
	} else if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("%w: config file %s: %v", ErrInvalid, file, err)
	}

	if file != "" {
		if err := ValidateFile(file); err != nil {
			return nil, err
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalid, file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling config: %v", ErrInvalid, err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that no source may leave empty.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Input) == "" {
		missing = append(missing, "input")
	}
	if strings.TrimSpace(c.Root) == "" {
		missing = append(missing, "root")
	}
	if strings.TrimSpace(c.Output) == "" {
		missing = append(missing, "output")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: empty %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", defaultConfig.Input)
	v.SetDefault("root", defaultConfig.Root)
	v.SetDefault("output", defaultConfig.Output)
	v.SetDefault("format", defaultConfig.Format)
	v.SetDefault("dry_run", defaultConfig.DryRun)
	v.SetDefault("fail_on_stale", defaultConfig.FailOnStale)
	v.SetDefault("scan.exclude", defaultConfig.Scan.Exclude)
	v.SetDefault("scan.ignore_file", defaultConfig.Scan.IgnoreFile)
	v.SetDefault("scan.respect_gitignore", defaultConfig.Scan.RespectGitignore)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

var configFileNames = []string{".dfrecon.yaml", ".dfrecon.yml", ".dfrecon.json", ".dfrecon.toml"}

// findConfigFile returns the first config file found in dirs, then in
// $HOME/.dfrecon/config.yaml.
func findConfigFile(dirs []string) string {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				return candidate
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".dfrecon", "config.yaml")
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
