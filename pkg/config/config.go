// Package config loads the declarative description of a navstack setup:
// the containers to create, their animations and backdrops, and the link
// routes that open screens.
//
// Files are YAML or TOML, chosen by extension:
//
//	version: v1.0.0
//	interaction: global
//	containers:
//	  - name: main
//	    kind: page
//	    animation: {type: slide, duration: 300ms, curve: ios}
//	  - name: dialogs
//	    kind: modal
//	    backdrop: {strategy: reorder-reuse, timing: after, alpha: 0.6}
//	links:
//	  - {path: "/products/:id", container: main, key: "product/:id"}
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/errors"
)

// SchemaMajor is the configuration major version this package reads.
const SchemaMajor = "v1"

// Format is a configuration file syntax.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Config is the root of a configuration file.
type Config struct {
	Version     string            `yaml:"version" toml:"version"`
	LogLevel    string            `yaml:"log_level,omitempty" toml:"log_level"`
	Interaction string            `yaml:"interaction,omitempty" toml:"interaction"`
	Containers  []ContainerConfig `yaml:"containers" toml:"containers"`
	Links       []LinkConfig      `yaml:"links,omitempty" toml:"links"`
}

// ContainerConfig describes one container.
type ContainerConfig struct {
	Name string `yaml:"name" toml:"name"`
	// Kind is page, modal or sheet.
	Kind string `yaml:"kind" toml:"kind"`
	// Stacking applies to page containers. Unset means true.
	Stacking  *bool           `yaml:"stacking,omitempty" toml:"stacking"`
	Animation AnimationConfig `yaml:"animation,omitempty" toml:"animation"`
	Backdrop  *BackdropConfig `yaml:"backdrop,omitempty" toml:"backdrop"`
}

// AnimationConfig describes a container's default transition animation.
// Zero fields keep the container kind's default.
type AnimationConfig struct {
	Type      string   `yaml:"type,omitempty" toml:"type"`
	Duration  Duration `yaml:"duration,omitempty" toml:"duration"`
	Curve     string   `yaml:"curve,omitempty" toml:"curve"`
	Direction string   `yaml:"direction,omitempty" toml:"direction"`
	Parallax  float64  `yaml:"parallax,omitempty" toml:"parallax"`
}

// IsZero reports whether no field is set.
func (a AnimationConfig) IsZero() bool { return a == AnimationConfig{} }

// BackdropConfig describes the backdrops of a modal container.
type BackdropConfig struct {
	// Strategy is per-modal, first-only or reorder-reuse.
	Strategy string `yaml:"strategy,omitempty" toml:"strategy"`
	// Timing is before or after, for reorder-reuse.
	Timing      string   `yaml:"timing,omitempty" toml:"timing"`
	Duration    Duration `yaml:"duration,omitempty" toml:"duration"`
	Curve       string   `yaml:"curve,omitempty" toml:"curve"`
	Alpha       *float64 `yaml:"alpha,omitempty" toml:"alpha"`
	Dismissible bool     `yaml:"dismissible,omitempty" toml:"dismissible"`
}

// LinkConfig maps a link path to a push.
type LinkConfig struct {
	Path      string `yaml:"path" toml:"path"`
	Container string `yaml:"container" toml:"container"`
	Key       string `yaml:"key" toml:"key"`
	Animate   bool   `yaml:"animate,omitempty" toml:"animate"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	format, err := FormatOf(path)
	if err != nil {
		return nil, errors.New(op, errors.KindConfig, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(op, errors.KindConfig, fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data, format)
}

// Parse decodes data and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	const op = "config.Parse"
	var cfg Config
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.New(op, errors.KindConfig, fmt.Errorf("failed to parse yaml: %w", err))
		}
	case TOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.New(op, errors.KindConfig, fmt.Errorf("failed to parse toml: %w", err))
		}
	default:
		return nil, errors.New(op, errors.KindConfig, fmt.Errorf("unsupported format %q", format))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	containerKinds = []string{"page", "modal", "sheet"}
	strategies     = []string{"", "per-modal", "first-only", "reorder-reuse"}
	timings        = []string{"", "before", "after"}
	interactions   = []string{"", "container", "global"}
	logLevels      = []string{"", "debug", "info", "warn", "warning", "error"}
)

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	switch {
	case c.Version == "":
		add("version is required")
	case !semver.IsValid(c.Version):
		add("version %q is not a semantic version", c.Version)
	case semver.Major(c.Version) != SchemaMajor:
		add("version %q is not supported (want %s.x.y)", c.Version, SchemaMajor)
	}
	if !oneOf(c.Interaction, interactions) {
		add("interaction %q must be container or global", c.Interaction)
	}
	if !oneOf(c.LogLevel, logLevels) {
		add("log_level %q must be debug, info, warn or error", c.LogLevel)
	}

	kinds := make(map[string]string, len(c.Containers))
	for i, cc := range c.Containers {
		where := fmt.Sprintf("containers[%d]", i)
		if cc.Name == "" {
			add("%s: name is required", where)
		} else {
			where = fmt.Sprintf("container %q", cc.Name)
			if _, dup := kinds[cc.Name]; dup {
				add("%s: duplicate name", where)
			}
			kinds[cc.Name] = strings.ToLower(cc.Kind)
		}
		if !oneOf(cc.Kind, containerKinds) {
			add("%s: kind %q must be page, modal or sheet", where, cc.Kind)
		}
		if cc.Stacking != nil && !strings.EqualFold(cc.Kind, "page") {
			add("%s: stacking applies to page containers only", where)
		}
		problems = append(problems, cc.Animation.validate(where)...)
		if cc.Backdrop != nil {
			if !strings.EqualFold(cc.Kind, "modal") {
				add("%s: backdrop applies to modal containers only", where)
			}
			problems = append(problems, cc.Backdrop.validate(where)...)
		}
	}

	for i, l := range c.Links {
		where := fmt.Sprintf("links[%d]", i)
		if !strings.HasPrefix(l.Path, "/") {
			add("%s: path %q must start with /", where, l.Path)
		}
		if l.Key == "" {
			add("%s: key is required", where)
		}
		switch kind, ok := kinds[l.Container]; {
		case !ok:
			add("%s: unknown container %q", where, l.Container)
		case kind == "sheet":
			add("%s: container %q is a sheet container", where, l.Container)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("config.Validate", errors.KindConfig, stderrors.Join(problems...))
}

func (a AnimationConfig) validate(where string) []error {
	var problems []error
	if _, err := animation.ParseKind(a.Type); err != nil {
		problems = append(problems, fmt.Errorf("%s: animation: %w", where, err))
	}
	if _, ok := animation.CurveByName(a.Curve); !ok {
		problems = append(problems, fmt.Errorf("%s: animation: unknown curve %q (want one of %s)", where, a.Curve, strings.Join(animation.CurveNames(), ", ")))
	}
	if _, err := animation.ParseSlideDirection(a.Direction); err != nil {
		problems = append(problems, fmt.Errorf("%s: animation: %w", where, err))
	}
	if a.Duration < 0 {
		problems = append(problems, fmt.Errorf("%s: animation: negative duration", where))
	}
	if a.Parallax < 0 || a.Parallax > 1 {
		problems = append(problems, fmt.Errorf("%s: animation: parallax %v outside [0, 1]", where, a.Parallax))
	}
	return problems
}

func (b BackdropConfig) validate(where string) []error {
	var problems []error
	if !oneOf(b.Strategy, strategies) {
		problems = append(problems, fmt.Errorf("%s: backdrop: unknown strategy %q", where, b.Strategy))
	}
	if !oneOf(b.Timing, timings) {
		problems = append(problems, fmt.Errorf("%s: backdrop: timing %q must be before or after", where, b.Timing))
	}
	if _, ok := animation.CurveByName(b.Curve); !ok {
		problems = append(problems, fmt.Errorf("%s: backdrop: unknown curve %q", where, b.Curve))
	}
	if b.Duration < 0 {
		problems = append(problems, fmt.Errorf("%s: backdrop: negative duration", where))
	}
	if b.Alpha != nil && (*b.Alpha < 0 || *b.Alpha > 1) {
		problems = append(problems, fmt.Errorf("%s: backdrop: alpha %v outside [0, 1]", where, *b.Alpha))
	}
	return problems
}

func oneOf(v string, allowed []string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
