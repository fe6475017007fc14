// Package config loads the workflow configuration for the md2tex CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ju1-eu/go-md2tex/internal/fileutil"
	"github.com/ju1-eu/go-md2tex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// configDirName is the subdirectory under the user config dir searched for
// named configs.
const configDirName = "go-md2tex"

// Config holds all configuration for the publishing workflow.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Pandoc    PandocConfig    `yaml:"pandoc"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Workers   int             `yaml:"workers"` // 0 = auto
}

// PathsConfig defines the working directories of the note tree.
type PathsConfig struct {
	Markdown string `yaml:"markdown"` // Markdown sources
	Tex      string `yaml:"tex"`      // LaTeX output and normalization target
	HTML     string `yaml:"html"`     // HTML output and rewrite target
	PDF      string `yaml:"pdf"`      // PDF export target
}

// PandocConfig defines the external files handed to pandoc.
type PandocConfig struct {
	Template       string   `yaml:"template"`       // LaTeX template
	LuaFilter      string   `yaml:"luaFilter"`      // combined Lua filter
	CSS            string   `yaml:"css"`            // stylesheet for HTML output
	CSL            string   `yaml:"csl"`            // citation style
	Bibliographies []string `yaml:"bibliographies"` // BibTeX/CSL files
}

// NormalizeConfig defines LaTeX normalization options.
type NormalizeConfig struct {
	ImageWidth  string            `yaml:"imageWidth"`  // fraction of \textwidth (default 0.8)
	ImageHeight string            `yaml:"imageHeight"` // fraction of \textheight (default 0.6)
	Citations   bool              `yaml:"citations"`   // enable textcite cleanup rules
	Labels      map[string]string `yaml:"labels"`      // override label transliteration table
	Backup      bool              `yaml:"backup"`      // snapshot files to .bak before rewriting
}

// DefaultConfig returns the standard directory layout relative to the
// working directory.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Markdown: "./md",
			Tex:      "./tex",
			HTML:     "./html",
			PDF:      "./pdf",
		},
		Pandoc: PandocConfig{
			Template:  "content/vorlage-main.tex",
			LuaFilter: "content/combined-filter.lua",
		},
		Normalize: NormalizeConfig{
			ImageWidth:  "0.8",
			ImageHeight: "0.6",
		},
	}
}

// Load loads configuration from a file path or config name. A string
// containing a path separator is treated as a file path; otherwise it is a
// config name searched in the current directory and the user config
// directory. Missing files are errors, never a silent fallback.
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolvePath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// resolvePath searches for a config file by name.
// Extensions tried in order: .yaml, .yml.
// Locations tried in order: current directory, ~/.config/go-md2tex/.
func resolvePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
