package fetch

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
)

// Kind selects the fetch strategy for a task.
type Kind string

const (
	// KindDownload retrieves a single file over HTTP(S).
	KindDownload Kind = "download"
	// KindClone performs a shallow (depth 1) repository clone.
	KindClone Kind = "clone"
)

// Task is one unit of installation work declared by the caller and consumed
// exactly once by the installer.
type Task struct {
	// Kind is "download" or "clone".
	Kind Kind `yaml:"kind"`
	// Source is the file URL or repository URL.
	Source string `yaml:"source"`
	// Destination is the local path the file or checkout lands at.
	// Destinations are assumed disjoint across tasks; that is a caller
	// contract, not an enforced invariant.
	Destination string `yaml:"destination"`
	// DisplayName optionally overrides the label used in status output.
	DisplayName string `yaml:"name,omitempty"`
}

// Label returns the human-facing name for the task: the display name if set,
// otherwise the destination's base name.
func (t Task) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return filepath.Base(t.Destination)
}

// Validate checks that the task is well-formed. A malformed task is a caller
// contract violation, reported as a ConfigError.
func (t Task) Validate() error {
	switch t.Kind {
	case KindDownload, KindClone:
	default:
		return apperrors.NewConfigError("task %q: unknown kind %q", t.Label(), t.Kind)
	}
	if t.Source == "" {
		return apperrors.NewConfigError("task %q: missing source", t.Label())
	}
	if t.Destination == "" {
		return apperrors.NewConfigError("task %q: missing destination", t.Label())
	}
	return nil
}

// Outcome is the per-task result. Exactly one Outcome exists per submitted
// task, populated for success and failure alike.
type Outcome struct {
	// Task is the input task this outcome belongs to.
	Task Task
	// Succeeded reports whether the fetch completed.
	Succeeded bool
	// Error holds the captured failure text when Succeeded is false.
	Error string
}

// manifest is the on-disk YAML shape of a task list.
type manifest struct {
	Tasks []Task `yaml:"tasks"`
}

// LoadManifest reads a YAML task manifest:
//
//	tasks:
//	  - kind: download
//	    source: https://example.com/config.json
//	    destination: /data/config.json
//	  - kind: clone
//	    source: https://github.com/some/extension
//	    destination: /data/extensions/extension
//
// Every task is validated; a malformed manifest fails as a whole rather than
// silently dropping entries.
func LoadManifest(path string) ([]Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "read manifest %s", path)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, apperrors.WrapError(err, "parse manifest %s", path)
	}
	if len(m.Tasks) == 0 {
		return nil, apperrors.NewConfigError("manifest %s declares no tasks", path)
	}
	for _, task := range m.Tasks {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}
	return m.Tasks, nil
}
