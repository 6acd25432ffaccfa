package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Input struct {
		Path        string `yaml:"path"`
		TargetTaxon string `yaml:"target_taxon"` // numeric NCBI taxid, e.g. 9606
	} `yaml:"input"`
	Symbols struct {
		Path          string `yaml:"path"` // HGNC complete set TSV
		AllowFallback bool   `yaml:"allow_fallback"`
	} `yaml:"symbols"`
	Output struct {
		EdgeList string `yaml:"edge_list"`
		Matrix   string `yaml:"matrix"`
		Report   string `yaml:"report"`
	} `yaml:"output"`
	Store struct {
		Path string `yaml:"path"` // empty disables SQLite persistence
	} `yaml:"store"`
	Log struct {
		Debug bool `yaml:"debug"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Input.Path = "Homo sapiens-20121210.txt"
	cfg.Input.TargetTaxon = "9606"
	cfg.Symbols.Path = "hgnc_complete_set.txt"
	cfg.Symbols.AllowFallback = true
	cfg.Output.EdgeList = "pina_compiled.tab"
	cfg.Output.Matrix = "pina_compiled_adjm.tab"
	cfg.Output.Report = "pina_report.json"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("PPIGRAPH_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("PPIGRAPH_TAXON"); v != "" {
		cfg.Input.TargetTaxon = v
	}
	if v := os.Getenv("PPIGRAPH_SYMBOLS"); v != "" {
		cfg.Symbols.Path = v
	}
	if v := os.Getenv("PPIGRAPH_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("PPIGRAPH_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}

	return cfg, nil
}
