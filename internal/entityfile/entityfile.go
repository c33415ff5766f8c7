// Package entityfile reads and writes entity documents (an entity type plus
// its addon sequence) as JSON, YAML or TOML.
package entityfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-addons/pkg/model"
)

// Format names an entity document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("entityfile: unknown format")

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name. Blank input yields "".
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return "", nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Decode parses an entity document. Blank documents decode to an empty
// entity.
func Decode(data []byte, format Format) (*model.Entity, error) {
	entity := &model.Entity{}
	if len(bytes.TrimSpace(data)) == 0 {
		entity.Addons = model.Addons{}
		return entity, nil
	}

	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, entity)
	case FormatYAML:
		err = yaml.Unmarshal(data, entity)
	case FormatTOML:
		err = toml.Unmarshal(data, entity)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("entityfile: decode %s: %w", format, err)
	}
	if entity.Addons == nil {
		entity.Addons = model.Addons{}
	}
	return entity, nil
}

// Encode serialises entity in format.
func Encode(entity *model.Entity, format Format) ([]byte, error) {
	if entity == nil {
		return nil, errors.New("entityfile: entity is nil")
	}
	switch format {
	case FormatJSON, "":
		payload, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("entityfile: encode json: %w", err)
		}
		return append(payload, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(entity); err != nil {
			return nil, fmt.Errorf("entityfile: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("entityfile: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		payload, err := toml.Marshal(entity)
		if err != nil {
			return nil, fmt.Errorf("entityfile: encode toml: %w", err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Read loads the entity stored at path, deriving the format from the
// extension when format is blank. A missing file yields an empty entity.
func Read(path string, format Format) (*model.Entity, Format, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &model.Entity{Addons: model.Addons{}}, format, nil
	}
	if err != nil {
		return nil, format, fmt.Errorf("entityfile: read %s: %w", path, err)
	}
	entity, err := Decode(data, format)
	if err != nil {
		return nil, format, fmt.Errorf("entityfile: %s: %w", path, err)
	}
	return entity, format, nil
}

// Write stores entity at path, replacing the file atomically.
func Write(path string, entity *model.Entity, format Format) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	payload, err := Encode(entity, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".entity-*")
	if err != nil {
		return fmt.Errorf("entityfile: write %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("entityfile: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("entityfile: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("entityfile: write %s: %w", path, err)
	}
	return nil
}
