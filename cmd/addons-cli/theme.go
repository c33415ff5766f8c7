package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-addons/internal/config"
	"github.com/goliatone/go-addons/pkg/renderers/html"
)

// loadTheme turns theme settings into renderer configuration. A manifest is
// validated through a go-theme registry; without one only the theme and
// variant names are applied.
func loadTheme(cfg config.ThemeConfig) (*theme.RendererConfig, error) {
	if cfg.Manifest == "" {
		if cfg.Name == "" {
			return nil, nil
		}
		return &theme.RendererConfig{Theme: cfg.Name, Variant: cfg.Variant}, nil
	}

	manifest, err := readManifest(cfg.Manifest)
	if err != nil {
		return nil, err
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("addons-cli: theme manifest %s: %w", cfg.Manifest, err)
	}

	name := cfg.Name
	if name == "" {
		name = manifest.Name
	}
	if cfg.Variant != "" {
		if _, ok := manifest.Variants[cfg.Variant]; !ok {
			return nil, fmt.Errorf("addons-cli: theme %q has no variant %q", name, cfg.Variant)
		}
	}
	return html.ThemeConfigFromSelection(&theme.Selection{
		Theme:    name,
		Variant:  cfg.Variant,
		Manifest: manifest,
	}), nil
}

// readManifest decodes a JSON or YAML manifest. YAML is normalised to JSON
// first so both share the manifest's JSON field names.
func readManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("addons-cli: read theme manifest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("addons-cli: parse theme manifest %s: %w", path, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("addons-cli: parse theme manifest %s: %w", path, err)
		}
	}

	var manifest theme.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("addons-cli: parse theme manifest %s: %w", path, err)
	}
	return &manifest, nil
}
