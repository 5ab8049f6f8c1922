// Package config resolves the module catalog and data directory.
//
// Modules come from the first source that is set:
//
//  1. AURVO_MODULES, an inline JSON payload
//  2. AURVO_MODULES_FILE, a .json, .toml, .yaml or .yml file
//  3. DefaultModules
//
// The resolved Settings are cached by the Registry until Reset is called.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rcliao/aurvo/internal/model"
)

// Environment variables read by the registry.
const (
	EnvDataDir     = "AURVO_DATA_DIR"
	EnvModules     = "AURVO_MODULES"
	EnvModulesFile = "AURVO_MODULES_FILE"
)

// DefaultDataDir is used when AURVO_DATA_DIR is unset.
const DefaultDataDir = "data"

// LookupFunc reads a configuration variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// MapLookup serves variables from a fixed map.
func MapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// WithOverrides layers non-empty overrides on top of base.
func WithOverrides(base LookupFunc, overrides map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v := overrides[key]; v != "" {
			return v, true
		}
		return base(key)
	}
}

// Registry holds the process-wide Settings.
type Registry struct {
	lookup   LookupFunc
	settings atomic.Pointer[model.Settings]
}

// NewRegistry creates a registry reading variables through lookup.
// A nil lookup reads the process environment.
func NewRegistry(lookup LookupFunc) *Registry {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Registry{lookup: lookup}
}

// Settings returns the cached settings, resolving them on first use.
// Creating the data directory is a side effect of resolution.
func (r *Registry) Settings() (*model.Settings, error) {
	if s := r.settings.Load(); s != nil {
		return s, nil
	}
	s, err := r.build()
	if err != nil {
		return nil, err
	}
	r.settings.CompareAndSwap(nil, s)
	return r.settings.Load(), nil
}

// Reset drops the cached settings so the next call re-resolves them.
// It must not race with in-flight requests.
func (r *Registry) Reset() {
	r.settings.Store(nil)
}

// List returns the module definitions in resolution order.
func (r *Registry) List() ([]model.ModuleDefinition, error) {
	s, err := r.Settings()
	if err != nil {
		return nil, err
	}
	return append([]model.ModuleDefinition(nil), s.Modules...), nil
}

// Module returns the definition for slug, or a *NotFoundError.
func (r *Registry) Module(slug string) (model.ModuleDefinition, error) {
	s, err := r.Settings()
	if err != nil {
		return model.ModuleDefinition{}, err
	}
	m, ok := s.Module(slug)
	if !ok {
		return model.ModuleDefinition{}, &NotFoundError{Slug: slug}
	}
	return m, nil
}

func (r *Registry) env(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *Registry) build() (*model.Settings, error) {
	dir, err := r.dataDir()
	if err != nil {
		return nil, err
	}

	modules, err := r.modules()
	if err != nil {
		return nil, &StartupError{Err: err}
	}

	return model.NewSettings(dir, modules), nil
}

func (r *Registry) dataDir() (string, error) {
	dir, ok := r.env(EnvDataDir)
	if !ok {
		dir = DefaultDataDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return abs, nil
}

func (r *Registry) modules() ([]model.ModuleDefinition, error) {
	if raw, ok := r.env(EnvModules); ok {
		payload, err := decodeJSON([]byte(raw))
		if err != nil {
			return nil, &ConfigurationError{Source: EnvModules, Msg: "invalid JSON", Err: err}
		}
		return parse(payload, EnvModules)
	}

	if path, ok := r.env(EnvModulesFile); ok {
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationError{Source: path, Msg: "modules file does not exist"}
		}
		if err != nil {
			return nil, &ConfigurationError{Source: path, Msg: "read modules file", Err: err}
		}
		payload, err := decodeFile(path, raw)
		if err != nil {
			return nil, err
		}
		return parse(payload, path)
	}

	return append([]model.ModuleDefinition(nil), DefaultModules...), nil
}

func parse(payload any, source string) ([]model.ModuleDefinition, error) {
	raw, err := normalize(payload)
	if err != nil {
		return nil, withSource(err, source)
	}
	defs, err := extract(raw)
	if err != nil {
		return nil, withSource(err, source)
	}
	return defs, nil
}

func withSource(err error, source string) error {
	var cerr *ConfigurationError
	if errors.As(err, &cerr) && cerr.Source == "" {
		cerr.Source = source
	}
	return err
}
