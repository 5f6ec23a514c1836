package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/cmd/navstack/internal/sim"
	"github.com/go-drift/navstack/pkg/config"
	"github.com/go-drift/navstack/pkg/errors"
)

func TestContainerRunsScript(t *testing.T) {
	prev := errors.SetHandler(nil)
	t.Cleanup(func() { errors.SetHandler(prev) })

	cfg, err := config.Parse([]byte(`
version: v1.0.0
log_level: warn
containers:
  - {name: main, kind: page}
`), config.YAML)
	require.NoError(t, err)
	script, err := sim.ParseScript([]byte(`
steps:
  - {do: push, container: main, key: home, id: home}
`))
	require.NoError(t, err)

	var logs bytes.Buffer
	c := NewContainer(Options{Config: cfg, Script: script, LogLevel: "debug", LogOut: &logs})
	r, err := c.Runner()
	require.NoError(t, err)

	results, err := r.Run(script)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, logs.String(), `"msg":"step finished"`)
}

func TestContainerReportsBuildErrors(t *testing.T) {
	prev := errors.SetHandler(nil)
	t.Cleanup(func() { errors.SetHandler(prev) })

	cfg := &config.Config{
		Version:    "v1.0.0",
		Containers: []config.ContainerConfig{{Name: "main", Kind: "page"}},
		Links:      []config.LinkConfig{{Path: "/*a/b", Container: "main", Key: "k"}},
	}
	c := NewContainer(Options{Config: cfg, Script: &sim.Script{}})
	_, err := c.Runner()
	assert.ErrorContains(t, err, "failed to build simulation")
}
