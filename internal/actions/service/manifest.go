// Package service implements action manifest loading and run execution.
package service

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	customValidation "github.com/allisson/actionserver/internal/validation"
)

// manifestFile mirrors the YAML layout of the action manifest:
//
//	actions:
//	  deploy:
//	    description: Deploy the application
//	    command: ["./scripts/deploy.sh", "--env", "production"]
//	    working_dir: /srv/app
//	    timeout_seconds: 120
type manifestFile struct {
	Actions map[string]manifestAction `yaml:"actions"`
}

type manifestAction struct {
	Description    string   `yaml:"description"`
	Command        []string `yaml:"command"`
	WorkingDir     string   `yaml:"working_dir"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Registry holds the actions declared in the manifest, keyed by name.
// It is built once at startup and read-only afterwards.
type Registry struct {
	actions map[string]actionsDomain.Action
}

// LoadRegistry reads, parses, and validates the action manifest at path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", actionsDomain.ErrInvalidManifest, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry builds a Registry from raw manifest YAML.
func ParseRegistry(data []byte) (*Registry, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", actionsDomain.ErrInvalidManifest, err)
	}
	if len(file.Actions) == 0 {
		return nil, fmt.Errorf("%w: no actions declared", actionsDomain.ErrInvalidManifest)
	}

	actions := make(map[string]actionsDomain.Action, len(file.Actions))
	for name, entry := range file.Actions {
		if err := customValidation.Slug.Validate(name); err != nil {
			return nil, fmt.Errorf("%w: action %q: %v", actionsDomain.ErrInvalidManifest, name, err)
		}
		if len(entry.Command) == 0 || entry.Command[0] == "" {
			return nil, fmt.Errorf("%w: action %q: command is required", actionsDomain.ErrInvalidManifest, name)
		}
		if entry.TimeoutSeconds < 0 {
			return nil, fmt.Errorf(
				"%w: action %q: timeout_seconds must not be negative", actionsDomain.ErrInvalidManifest, name,
			)
		}

		actions[name] = actionsDomain.Action{
			Name:        name,
			Description: entry.Description,
			Command:     entry.Command,
			WorkingDir:  entry.WorkingDir,
			Timeout:     time.Duration(entry.TimeoutSeconds) * time.Second,
		}
	}

	return &Registry{actions: actions}, nil
}

// Get returns the action with the given name.
func (r *Registry) Get(name string) (actionsDomain.Action, error) {
	action, ok := r.actions[name]
	if !ok {
		return actionsDomain.Action{}, actionsDomain.ErrActionNotFound
	}
	return action, nil
}

// List returns all declared actions ordered by name.
func (r *Registry) List() []actionsDomain.Action {
	actions := make([]actionsDomain.Action, 0, len(r.actions))
	for _, action := range r.actions {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Name < actions[j].Name
	})
	return actions
}
