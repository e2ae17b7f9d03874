// Package settings loads the tool's own configuration from a TOML file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

const (
	dirName  = ".runbook"
	fileName = "config.toml"

	envLogLevel = "RUNBOOK_LOG_LEVEL"
	envStateDir = "RUNBOOK_STATE_DIR"
)

// Settings holds user preferences for the runbook CLI.
type Settings struct {
	LogLevel    string `toml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	HumanLogs   bool   `toml:"human_logs"`
	StateDir    string `toml:"state_dir" validate:"required"`
	Journal     bool   `toml:"journal"`
	RenderStyle string `toml:"render_style" validate:"required"`
	WordWrap    int    `toml:"word_wrap" validate:"min=20,max=400"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	stateDir := dirName
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, dirName)
	}
	return Settings{
		LogLevel:    "info",
		HumanLogs:   true,
		StateDir:    stateDir,
		Journal:     true,
		RenderStyle: "auto",
		WordWrap:    100,
	}
}

// DefaultPath returns ~/.runbook/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load reads settings from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Settings, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, rberrors.NewParseError(path, tomlLine(err), err)
			}
		}
	}

	cfg.applyEnv()
	cfg.StateDir = expandHome(cfg.StateDir)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			fe := ves[0]
			field := strings.ToLower(fe.Field())
			return rberrors.NewValidationError(field, fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag()), err)
		}
		return rberrors.NewValidationError("settings", err.Error(), err)
	}
	return nil
}

// RegistryPath is where tracked runbooks are indexed.
func (s Settings) RegistryPath() string {
	return filepath.Join(s.StateDir, "registry.json")
}

// JournalPath is the SQLite history database.
func (s Settings) JournalPath() string {
	return filepath.Join(s.StateDir, "journal.db")
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		s.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(envStateDir)); v != "" {
		s.StateDir = v
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func tomlLine(err error) int {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Position.Line
	}
	return 0
}
