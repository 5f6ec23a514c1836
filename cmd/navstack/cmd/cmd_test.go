package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/errors"
)

const navYAML = `
version: v1.0.0
containers:
  - name: main
    kind: page
  - name: dialogs
    kind: modal
    backdrop: {strategy: first-only}
links:
  - {path: "/items/:id", container: main, key: "item/:id"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := errors.SetHandler(nil)
	t.Cleanup(func() { errors.SetHandler(prev) })

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nav.yaml", navYAML)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "dialogs")
	assert.Contains(t, out, "/items/:id")

	bad := writeFile(t, dir, "bad.yaml", "version: v3.0.0\ncontainers: [{name: x, kind: tab}]\n")
	_, err = run(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `kind "tab"`)
	assert.Contains(t, err.Error(), `version "v3.0.0" is not supported`)
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "nav.yaml", navYAML)
	script := writeFile(t, dir, "script.yaml", `
missing: [gone]
steps:
  - {do: push, container: main, key: home, id: home}
  - {do: push, container: dialogs, key: ask, id: ask, animate: true}
  - {do: push, container: main, key: gone, expect_error: true}
  - {do: back}
  - {do: open, link: /items/3}
`)

	out, err := run(t, "simulate", "--config", cfg, script)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 push container=main key=home id=home")
	assert.Contains(t, out, "expected error")
	assert.Contains(t, out, "5 steps passed")
}

func TestSimulateCommandFailsOnUnexpectedError(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "nav.yaml", navYAML)
	script := writeFile(t, dir, "script.yaml", `
steps:
  - {do: pop, container: main}
`)
	out, err := run(t, "simulate", "-c", cfg, script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
	assert.Contains(t, out, "FAIL")
}
