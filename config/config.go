// Package config loads .semmerge.yaml, the teacher-format (YAML via
// go.yaml.in/yaml/v4) counterpart to original_source's
// .semmerge.toml/tomllib loader in config.py.
package config

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/jimmc414/semantic-merge/semmergeerrors"
)

// CoreConfig holds engine-wide settings.
type CoreConfig struct {
	DeterministicSeed string `yaml:"deterministic_seed"`
	MemoryCapMB       int    `yaml:"memory_cap_mb"`
	Formatter         string `yaml:"formatter"`
}

// LanguageConfig holds per-language settings.
type LanguageConfig struct {
	Enabled       bool     `yaml:"enabled"`
	ProjectGlobs  []string `yaml:"project_globs"`
	WorkerCommand []string `yaml:"worker_command"`
}

// CiConfig holds continuous-integration policy flags.
type CiConfig struct {
	RequireTypecheck bool `yaml:"require_typecheck"`
	RequireTests     bool `yaml:"require_tests"`
}

// Config is the complete configuration tree for a repository.
type Config struct {
	// Root is the directory the config file was found in, or the start
	// directory when no file was found.
	Root      string                    `yaml:"-"`
	Core      CoreConfig                `yaml:"core"`
	Languages map[string]LanguageConfig `yaml:"languages"`
	CI        CiConfig                  `yaml:"ci"`
}

const fileName = ".semmerge.yaml"

func defaults(root string) Config {
	return Config{
		Root: root,
		Core: CoreConfig{
			DeterministicSeed: "auto",
			MemoryCapMB:       4096,
		},
		Languages: map[string]LanguageConfig{
			"go": {Enabled: true, WorkerCommand: []string{"semmerge-worker-go"}},
		},
		CI: CiConfig{
			RequireTypecheck: true,
		},
	}
}

// Load searches start and its parent directories for .semmerge.yaml,
// returning defaults if none is found. Ports _find_config/load_config.
func Load(start string) (Config, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, err
		}
		start = cwd
	}

	path := findConfig(start)
	if path == "" {
		return defaults(start), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &semmergeerrors.ConfigError{Path: path, Message: "reading config file", Cause: err}
	}

	cfg := defaults(filepath.Dir(path))
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &semmergeerrors.ConfigError{Path: path, Message: "parsing YAML", Cause: err}
	}
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

func findConfig(start string) string {
	dir := start
	for {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
