// Package config loads pipeline configuration from a YAML file with .env
// and environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full tool configuration. Zero values fall back to
// DefaultConfig before validation.
type Config struct {
	Project struct {
		// Root is the SDAX project directory containing worklib/ and cache/.
		Root string `yaml:"root" validate:"required"`
		// RootBlock is the top-level design block. Its page files carry the
		// table of contents and the grid configuration.
		RootBlock string `yaml:"root_block" validate:"required"`
	} `yaml:"project"`

	Extract struct {
		// TOCPageIndex is the root-block page file holding the page table.
		TOCPageIndex int `yaml:"toc_page_index" validate:"min=1"`
		// GridPageIndex is the root-block page file holding grid settings.
		GridPageIndex int `yaml:"grid_page_index" validate:"min=1"`
		// PageSizeCode sizes pages whose TOC entry is missing (ANSI A-E).
		PageSizeCode string `yaml:"page_size_code" validate:"oneof=A B C D E"`
		// SymbolRevision is assumed when an instance names no revision.
		SymbolRevision string `yaml:"symbol_revision" validate:"required"`
	} `yaml:"extract"`

	Output struct {
		// Path of the interchange document written by extract.
		Path string `yaml:"path" validate:"required"`
		// Compress writes the document snappy-framed.
		Compress bool `yaml:"compress"`
	} `yaml:"output"`

	Render struct {
		// SVGDir receives per-page SVG files.
		SVGDir string `yaml:"svg_dir" validate:"required"`
		// PDFPath receives the multi-page PDF.
		PDFPath string `yaml:"pdf_path" validate:"required"`
	} `yaml:"render"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.Project.RootBlock = "brain_board"
	cfg.Extract.TOCPageIndex = 2
	cfg.Extract.GridPageIndex = 1
	cfg.Extract.PageSizeCode = "B"
	cfg.Extract.SymbolRevision = "sym_1"
	cfg.Output.Path = "full_design.json"
	cfg.Render.SVGDir = "pages"
	cfg.Render.PDFPath = "design.pdf"
	return cfg
}

// Load reads the YAML config at path, layers .env and environment-variable
// overrides on top and validates the result. An empty path yields the
// defaults plus overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. Presence-style constraints are struct
// tags; anything a tag cannot express is checked here.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid config: field %s fails %q", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Extract.TOCPageIndex == c.Extract.GridPageIndex {
		return fmt.Errorf("invalid config: toc_page_index and grid_page_index both %d", c.Extract.TOCPageIndex)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OTS_PROJECT_ROOT"); v != "" {
		cfg.Project.Root = v
	}
	if v := os.Getenv("OTS_ROOT_BLOCK"); v != "" {
		cfg.Project.RootBlock = v
	}
	if v := os.Getenv("OTS_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
}
