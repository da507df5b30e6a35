package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"schedd/pkg/types"
)

// seedFile is the on-disk shape of a descriptor seed list.
type seedFile struct {
	Backends []types.BackendDescriptor `json:"backends" yaml:"backends" toml:"backends"`
}

// LoadFile reads a descriptor seed file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) ([]types.BackendDescriptor, error) {
	base, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(base)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &seed); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(b, &seed); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &seed); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported seed extension: %s", ext)
	}
	return seed.Backends, nil
}

// LoadInto loads a seed file and registers every descriptor that is not
// already present. Returns the newly registered ids; registration errors
// other than duplicates abort the load.
func LoadInto(r *Registry, path string) ([]string, error) {
	descs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	var added []string
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			if IsDuplicateID(err) {
				continue
			}
			return added, err
		}
		added = append(added, d.ID)
	}
	return added, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
