package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yumosx/looplist/internal/env"
	"github.com/yumosx/looplist/internal/fsext"
	"github.com/yumosx/looplist/internal/log"
	"github.com/yumosx/looplist/internal/viewport"
)

const (
	envDebug      = "LOOPLIST_DEBUG"
	envTotalItems = "LOOPLIST_TOTAL_ITEMS"
)

// LoadReader decodes a config document on top of the engine defaults.
func LoadReader(fd io.Reader) (*Config, error) {
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}

	config := Config{List: viewport.DefaultConfig()}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load loads the configuration from the default paths and sets up logging.
func Load(workingDir string, debug bool) (*Config, error) {
	cfg, err := load(configPaths(workingDir), workingDir, debug, env.New())
	if err != nil {
		return nil, err
	}

	log.Setup(
		filepath.Join(cfg.Options.DataDirectory, "logs", fmt.Sprintf("%s.log", appName)),
		cfg.Options.Debug,
	)
	return cfg, nil
}

func configPaths(workingDir string) []string {
	return []string{
		globalConfig(),
		filepath.Join(workingDir, fmt.Sprintf("%s.json", appName)),
		filepath.Join(workingDir, fmt.Sprintf(".%s.json", appName)),
	}
}

func load(paths []string, workingDir string, debug bool, e env.Env) (*Config, error) {
	cfg, err := loadFromConfigPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", paths, err)
	}
	cfg.paths = paths
	cfg.setDefaults(workingDir)

	if err := cfg.applyEnv(e); err != nil {
		return nil, err
	}
	if err := cfg.resolveDataDirectory(e); err != nil {
		return nil, err
	}
	if debug {
		cfg.Options.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		slog.Warn("Rejected configuration", "paths", paths, "error", err)
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults(workingDir string) {
	c.workingDir = workingDir
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	}
	if c.Options.FrameRate == 0 {
		c.Options.FrameRate = defaultFrameRate
	}
	if len(c.Templates) == 0 {
		c.Templates = map[string]TemplateConfig{defaultTemplate: {}}
	}
}

func (c *Config) applyEnv(e env.Env) error {
	if env.Bool(e, envDebug) {
		c.Options.Debug = true
	}
	n, ok, err := env.Int(e, envTotalItems)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", viewport.ErrInvalidConfig, envTotalItems, err)
	}
	if ok {
		c.List.TotalItemCount = n
	}
	return nil
}

// resolveDataDirectory expands the data directory and anchors a relative one
// at the working directory.
func (c *Config) resolveDataDirectory(e env.Env) error {
	dir, err := fsext.Expand(c.Options.DataDirectory, e.Get)
	if err != nil {
		return fmt.Errorf("%w: data directory %q: %v", viewport.ErrInvalidConfig, c.Options.DataDirectory, err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.workingDir, dir)
	}
	c.Options.DataDirectory = dir
	return nil
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs []io.Reader

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		configs = append(configs, fd)
	}

	return loadFromReaders(configs)
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{List: viewport.DefaultConfig()}, nil
	}

	merged, err := Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return LoadReader(merged)
}

func globalConfig() string {
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// for windows, it should be in `%LOCALAPPDATA%/looplist/`
	// for linux and macOS, it should be in `$HOME/.config/looplist/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(os.Getenv("HOME"), ".config", appName, fmt.Sprintf("%s.json", appName))
}
