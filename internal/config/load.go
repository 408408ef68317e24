package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// EnvUseGoogle overrides use_google when set.
const EnvUseGoogle = "USE_GOOGLE"

// localPath returns the per-machine sibling of path: discover.json5 -> discover.local.json5.
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// readLayer decodes one JSON5 file. A missing file is reported as found == false.
func readLayer(path string) (cfg Config, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, true, nil
}

// ReadFile decodes path and then its .local sibling. The first file found is
// taken as is; the non-zero fields of the local layer are merged over it.
// Returns os.ErrNotExist if neither file exists.
func ReadFile(path string) (Config, error) {
	var (
		out   Config
		found bool
	)
	for _, p := range []string{path, localPath(path)} {
		layer, ok, err := readLayer(p)
		if err != nil {
			return Config{}, err
		}
		if !ok {
			continue
		}
		if !found {
			out, found = layer, true
			continue
		}
		if err := mergo.Merge(&out, layer, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merging %s: %w", p, err)
		}
		slog.Debug("merged local config overrides", "path", p)
	}
	if !found {
		return Config{}, os.ErrNotExist
	}
	return out, nil
}

// Load reads the configuration at path, applies environment overrides, then
// overrides (in order), then defaults, and validates the result.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Finalize(cfg, overrides...)
}

// Finalize applies environment overrides, then overrides, then defaults to
// cfg and validates the result.
func Finalize(cfg Config, overrides ...func(*Config)) (Config, error) {
	cfg = ApplyEnv(cfg, os.LookupEnv)
	for _, o := range overrides {
		o(&cfg)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides looked up through lookup.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvUseGoogle); ok {
		cfg.UseGoogle = parseToggle(v)
	}
	return cfg
}

// parseToggle treats 0/false/no/off as disabled and anything else as enabled.
func parseToggle(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}
