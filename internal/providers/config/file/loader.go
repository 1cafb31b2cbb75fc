package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/debugctx"
	"github.com/crmarques/srvinv/faults"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

var _ config.Loader = (*Loader)(nil)

// Loader reads YAML configuration files and applies environment overrides.
type Loader struct {
	fs          afero.Fs
	searchPaths []string
	environment map[string]string
	homeDir     func() (string, error)
}

type Option func(*Loader)

func WithFs(fsys afero.Fs) Option {
	return func(l *Loader) { l.fs = fsys }
}

func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) { l.searchPaths = append([]string{}, paths...) }
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(environment map[string]string) Option {
	return func(l *Loader) { l.environment = environment }
}

func WithHomeDir(homeDir func() (string, error)) Option {
	return func(l *Loader) { l.homeDir = homeDir }
}

func NewLoader(opts ...Option) *Loader {
	loader := &Loader{
		fs:          afero.NewOsFs(),
		searchPaths: append([]string{}, config.DefaultSearchPaths...),
		homeDir:     os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load merges every existing search-path file in order, or reads exactly the
// explicit file when one is named by the argument or by SRVINV_CONFIG.
// Environment overrides, defaults and validation are applied last.
func (l *Loader) Load(ctx context.Context, explicitPath string) (config.Config, error) {
	explicitPath = strings.TrimSpace(explicitPath)
	if explicitPath == "" {
		explicitPath = strings.TrimSpace(l.lookupEnv(config.ConfigFileEnvVar))
	}

	paths := l.searchPaths
	if explicitPath != "" {
		paths = []string{explicitPath}
	}

	var cfg config.Config
	for _, path := range paths {
		resolved, err := l.expandHome(path)
		if err != nil {
			return config.Config{}, err
		}

		data, err := afero.ReadFile(l.fs, resolved)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && explicitPath == "" {
				continue
			}
			return config.Config{}, validationError(fmt.Sprintf("config file %q could not be read", resolved), err)
		}

		if err := decodeInto(&cfg, data); err != nil {
			return config.Config{}, validationError(fmt.Sprintf("config file %q is invalid", resolved), err)
		}
		debugctx.Printf(ctx, "config loaded path=%q", resolved)
	}

	overrides, err := l.parseEnv()
	if err != nil {
		return config.Config{}, err
	}
	overrides.Apply(&cfg)

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// decodeInto decodes over the existing value so only the keys present in data
// replace earlier ones.
func decodeInto(cfg *config.Config, data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (l *Loader) parseEnv() (config.EnvOverrides, error) {
	var overrides config.EnvOverrides

	var err error
	if l.environment == nil {
		err = env.Parse(&overrides)
	} else {
		err = env.ParseWithOptions(&overrides, env.Options{Environment: l.environment})
	}
	if err != nil {
		return config.EnvOverrides{}, validationError("invalid environment override", err)
	}
	return overrides, nil
}

func (l *Loader) lookupEnv(key string) string {
	if l.environment == nil {
		return os.Getenv(key)
	}
	return l.environment[key]
}

func (l *Loader) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path), nil
	}

	homeDir, err := l.homeDir()
	if err != nil {
		return "", faults.NewTypedError(faults.InternalError, "failed to resolve user home directory", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
