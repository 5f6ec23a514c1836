// Package sim replays a scripted sequence of navigation operations against
// containers built from a config, one fixed frame at a time.
package sim

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/navstack/pkg/config"
)

// DefaultFrame is the frame delta used when a script sets none.
const DefaultFrame = 16 * time.Millisecond

// Script is a simulation input file:
//
//	frame: 16ms
//	missing: [broken]
//	steps:
//	  - {do: push, container: main, key: home, animate: true}
//	  - {do: open, link: /items/7}
//	  - {do: push, container: main, key: broken, expect_error: true}
//	  - {do: back}
type Script struct {
	Frame config.Duration `yaml:"frame,omitempty"`
	// Missing lists keys the loader fails to load.
	Missing []string `yaml:"missing,omitempty"`
	Steps   []Step   `yaml:"steps"`
}

// Step is one operation.
type Step struct {
	Do        string `yaml:"do"`
	Container string `yaml:"container,omitempty"`
	Key       string `yaml:"key,omitempty"`
	ID        string `yaml:"id,omitempty"`
	// Count and To select how many entities pop.
	Count   int    `yaml:"count,omitempty"`
	To      string `yaml:"to,omitempty"`
	Animate bool   `yaml:"animate,omitempty"`
	Async   bool   `yaml:"async,omitempty"`
	Link    string `yaml:"link,omitempty"`
	// Wait is the scheduler time a wait step lets pass.
	Wait        config.Duration `yaml:"wait,omitempty"`
	ExpectError bool            `yaml:"expect_error,omitempty"`
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Do)
	for _, kv := range [][2]string{
		{"container", s.Container},
		{"key", s.Key},
		{"id", s.ID},
		{"to", s.To},
		{"link", s.Link},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, " %s=%s", kv[0], kv[1])
		}
	}
	if s.Count > 0 {
		fmt.Fprintf(&b, " count=%d", s.Count)
	}
	if s.Wait > 0 {
		fmt.Fprintf(&b, " wait=%s", s.Wait)
	}
	if s.Animate {
		b.WriteString(" animate")
	}
	return b.String()
}

var actions = map[string]bool{
	"push": true, "pop": true, "preload": true, "release": true,
	"register": true, "show": true, "hide": true, "unregister": true,
	"open": true, "back": true, "wait": true,
}

// LoadScript reads and checks the script at path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if s.Frame <= 0 {
		s.Frame = config.Duration(DefaultFrame)
	}
	for i, step := range s.Steps {
		if !actions[step.Do] {
			return nil, fmt.Errorf("step %d: unknown action %q", i+1, step.Do)
		}
		if step.Do == "open" && step.Link == "" {
			return nil, fmt.Errorf("step %d: open needs a link", i+1)
		}
		if step.Do != "open" && step.Do != "back" && step.Do != "wait" && step.Container == "" {
			return nil, fmt.Errorf("step %d: %s needs a container", i+1, step.Do)
		}
	}
	return &s, nil
}
