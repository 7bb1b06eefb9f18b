package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when there is no artifact by the name
	ErrNotFound = errors.New("contract factory not found")
	// ErrAmbiguous is returned when the contract name is shared by multiple sources
	ErrAmbiguous = errors.New("contract name is ambiguous")
)

// Registry keeps the artifacts of the directory
// indexed by the contract name and the fully qualified name.
type Registry struct {
	dir       string
	by_name   map[string][]*Artifact
	qualified map[string]*Artifact
}

// skip returns true for the files that are not artifacts.
func skip(entry fs.DirEntry) bool {
	name := entry.Name()
	if entry.IsDir() {
		return name == "build-info" || name == "cache" || name == "node_modules"
	}
	return filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".dbg.json")
}

// Load the artifacts from the directory and its sub directories
func Load(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("artifacts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifacts path %s is not a directory", dir)
	}

	registry := &Registry{
		dir:       dir,
		by_name:   make(map[string][]*Artifact),
		qualified: make(map[string]*Artifact),
	}

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && skip(entry) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}
		artifact, ok, err := Parse(path, data)
		if err != nil || !ok {
			// not an artifact
			return nil
		}

		return registry.Add(artifact)
	})
	if err != nil {
		return nil, fmt.Errorf("filepath.WalkDir(%s): %w", dir, err)
	}

	return registry, nil
}

// Add the artifact to the registry.
// The fully qualified names must be unique.
func (registry *Registry) Add(artifact *Artifact) error {
	if len(artifact.ContractName) == 0 {
		return fmt.Errorf("artifact %s has no contract name", artifact.Path)
	}

	fqn := artifact.FullyQualifiedName()
	if existing, ok := registry.qualified[fqn]; ok {
		return fmt.Errorf("%s is defined in %s and %s", fqn, existing.Path, artifact.Path)
	}

	registry.qualified[fqn] = artifact
	registry.by_name[artifact.ContractName] = append(registry.by_name[artifact.ContractName], artifact)
	return nil
}

// Names returns the fully qualified names of the contracts in the sorted order
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.qualified))
	for name := range registry.qualified {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Artifact by the contract name or fully qualified name.
func (registry *Registry) Artifact(name string) (*Artifact, error) {
	if artifact, ok := registry.qualified[name]; ok {
		return artifact, nil
	}

	artifacts := registry.by_name[name]
	switch len(artifacts) {
	case 0:
		return nil, fmt.Errorf("%w: '%s' in %s", ErrNotFound, name, registry.dir)
	case 1:
		return artifacts[0], nil
	}

	names := make([]string, len(artifacts))
	for i, artifact := range artifacts {
		names[i] = artifact.FullyQualifiedName()
	}
	sort.Strings(names)

	return nil, fmt.Errorf("%w: '%s', use one of %s", ErrAmbiguous, name, strings.Join(names, ", "))
}

// Factory returns the contract factory by the contract name or fully qualified name.
func (registry *Registry) Factory(name string) (*Factory, error) {
	artifact, err := registry.Artifact(name)
	if err != nil {
		return nil, err
	}

	return NewFactory(artifact)
}
