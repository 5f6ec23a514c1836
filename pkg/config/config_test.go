package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/errors"
)

const sampleYAML = `
version: v1.2.0
log_level: debug
interaction: global
containers:
  - name: main
    kind: page
    animation:
      type: slide
      duration: 300ms
      curve: ios
      parallax: 0.3
  - name: tabs
    kind: page
    stacking: false
  - name: dialogs
    kind: modal
    animation: {type: fade, duration: 200ms}
    backdrop:
      strategy: reorder-reuse
      timing: after
      duration: 150ms
      alpha: 0.6
      dismissible: true
  - name: drawer
    kind: sheet
    animation: {type: slide, direction: bottom}
links:
  - path: /products/:id
    container: main
    key: product
    animate: true
`

const sampleTOML = `
version = "v1.0.0"

[[containers]]
name = "main"
kind = "page"

  [containers.animation]
  type = "fade"
  duration = "1.5s"
  curve = "ease-out"

[[containers]]
name = "dialogs"
kind = "modal"

  [containers.backdrop]
  strategy = "first-only"
  alpha = 0.4

[[links]]
path = "/settings"
container = "dialogs"
key = "settings"
`

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), YAML)
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", cfg.Version)
	assert.Equal(t, "global", cfg.Interaction)
	require.Len(t, cfg.Containers, 4)

	main := cfg.Containers[0]
	assert.Equal(t, "slide", main.Animation.Type)
	assert.Equal(t, 300*time.Millisecond, main.Animation.Duration.Std())
	assert.Equal(t, 0.3, main.Animation.Parallax)
	assert.Nil(t, main.Stacking)

	require.NotNil(t, cfg.Containers[1].Stacking)
	assert.False(t, *cfg.Containers[1].Stacking)
	assert.True(t, cfg.Containers[1].Animation.IsZero())

	bd := cfg.Containers[2].Backdrop
	require.NotNil(t, bd)
	assert.Equal(t, "reorder-reuse", bd.Strategy)
	assert.Equal(t, "after", bd.Timing)
	assert.Equal(t, 150*time.Millisecond, bd.Duration.Std())
	require.NotNil(t, bd.Alpha)
	assert.Equal(t, 0.6, *bd.Alpha)
	assert.True(t, bd.Dismissible)

	require.Len(t, cfg.Links, 1)
	assert.Equal(t, LinkConfig{Path: "/products/:id", Container: "main", Key: "product", Animate: true}, cfg.Links[0])
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), TOML)
	require.NoError(t, err)

	require.Len(t, cfg.Containers, 2)
	assert.Equal(t, 1500*time.Millisecond, cfg.Containers[0].Animation.Duration.Std())
	assert.Equal(t, "ease-out", cfg.Containers[0].Animation.Curve)
	require.NotNil(t, cfg.Containers[1].Backdrop)
	assert.Equal(t, "first-only", cfg.Containers[1].Backdrop.Strategy)
	require.Len(t, cfg.Links, 1)
	assert.Equal(t, "settings", cfg.Links[0].Key)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("containers: [\n"), YAML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindConfig))

	_, err = Parse([]byte("version = "), TOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindConfig))

	_, err = Parse(nil, Format("json"))
	require.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	alpha := 1.5
	stacking := true
	cfg := &Config{
		Version:     "2.0",
		Interaction: "everywhere",
		Containers: []ContainerConfig{
			{Name: "main", Kind: "page", Animation: AnimationConfig{Type: "spin", Curve: "wobble", Direction: "diagonal"}},
			{Name: "main", Kind: "page"},
			{Name: "", Kind: "drawer"},
			{Name: "sheets", Kind: "sheet", Stacking: &stacking},
			{Name: "dialogs", Kind: "modal", Backdrop: &BackdropConfig{Strategy: "shared", Timing: "later", Alpha: &alpha}},
		},
		Links: []LinkConfig{
			{Path: "products", Container: "nowhere"},
			{Path: "/s", Container: "sheets", Key: "s"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.KindOf(err))

	msg := err.Error()
	for _, want := range []string{
		`version "2.0" is not a semantic version`,
		`interaction "everywhere"`,
		`unknown animation type "spin"`,
		`unknown curve "wobble"`,
		`"diagonal"`,
		`container "main": duplicate name`,
		`containers[2]: name is required`,
		`kind "drawer"`,
		`stacking applies to page containers only`,
		`unknown strategy "shared"`,
		`timing "later"`,
		`alpha 1.5 outside [0, 1]`,
		`path "products" must start with /`,
		`links[0]: key is required`,
		`unknown container "nowhere"`,
		`container "sheets" is a sheet container`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"v1.0.0", true},
		{"v1.4", true},
		{"v1.0.0-beta.1", true},
		{"", false},
		{"1.0.0", false},
		{"v2.0.0", false},
		{"v0.9.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := (&Config{Version: tt.version}).Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "nav.yml")
	tomlPath := filepath.Join(dir, "nav.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(sampleTOML), 0o644))

	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, cfg.Containers, 4)

	cfg, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Len(t, cfg.Containers, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, errors.KindConfig))

	_, err = Load(filepath.Join(dir, "nav.json"))
	assert.ErrorContains(t, err, "unsupported config extension")
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "250ms", string(text))

	require.NoError(t, d.UnmarshalText(nil))
	assert.Zero(t, d)

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
