package virtualenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// writeScript installs an executable shell script at path.
func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
}

func TestBuilderRunsCreateCommand(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	record := filepath.Join(dir, "record")
	script := filepath.Join(dir, "fake-virtualenv")
	writeScript(t, script, fmt.Sprintf("printf '%%s' \"$*\" > %q\n", record))

	b, err := NewBuilder(WithCreateCommand(script))
	require.NoError(t, err)

	target := filepath.Join(dir, "env")
	require.NoError(t, b.Create(context.Background(), target))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, target, string(got))
}

func TestBuilderPassesPythonFlag(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	record := filepath.Join(dir, "record")
	script := filepath.Join(dir, "fake-virtualenv")
	writeScript(t, script, fmt.Sprintf("printf '%%s' \"$*\" > %q\n", record))

	b, err := NewBuilder(WithCreateCommand(script), WithPython("/usr/bin/python3"))
	require.NoError(t, err)

	target := filepath.Join(dir, "env")
	require.NoError(t, b.Create(context.Background(), target))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "--python=/usr/bin/python3 "+target, string(got))
}

func TestBuilderCommandArgsPrecedeTarget(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	record := filepath.Join(dir, "record")
	script := filepath.Join(dir, "fake-python")
	writeScript(t, script, fmt.Sprintf("printf '%%s' \"$*\" > %q\n", record))

	b, err := NewBuilder(WithCreateCommand(script, "-m", "venv"))
	require.NoError(t, err)

	target := filepath.Join(dir, "env")
	require.NoError(t, b.Create(context.Background(), target))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "-m venv "+target, string(got))
}

func TestBuilderFailureIncludesOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-virtualenv")
	writeScript(t, script, "echo unable to find interpreter\nexit 3\n")

	var streamed strings.Builder
	b, err := NewBuilder(WithCreateCommand(script), WithCreateOutput(&streamed))
	require.NoError(t, err)

	err = b.Create(context.Background(), filepath.Join(dir, "env"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unable to find interpreter")
	assert.Contains(t, streamed.String(), "unable to find interpreter")
}

func TestBuilderOptionValidation(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(WithCreateCommand(""))
	require.Error(t, err)
}

func TestInstallerRunsPipInsideEnvironment(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	env := filepath.Join(dir, "env")
	record := filepath.Join(dir, "record")
	writeScript(t, filepath.Join(env, "bin", "pip"),
		fmt.Sprintf("printf '%%s\\n%%s\\n%%s\\n' \"$*\" \"$VIRTUAL_ENV\" \"$PATH\" > %q\n", record))

	manifest := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("flask==1.0\n"), 0o644))

	i, err := NewInstaller()
	require.NoError(t, err)
	require.NoError(t, i.Install(context.Background(), env, manifest))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(got), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "install -r "+manifest, lines[0])
	assert.Equal(t, env, lines[1], "VIRTUAL_ENV must point at the environment")
	assert.True(t, strings.HasPrefix(lines[2], filepath.Join(env, "bin")+string(os.PathListSeparator)),
		"environment bin must lead PATH, got %q", lines[2])
}

func TestInstallerExtraArgs(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	env := filepath.Join(dir, "env")
	record := filepath.Join(dir, "record")
	writeScript(t, filepath.Join(env, "bin", "pip"),
		fmt.Sprintf("printf '%%s' \"$*\" > %q\n", record))

	manifest := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("flask\n"), 0o644))

	i, err := NewInstaller(WithInstallArgs("--index-url", "https://pypi.example.com/simple"))
	require.NoError(t, err)
	require.NoError(t, i.Install(context.Background(), env, manifest))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "install -r "+manifest+" --index-url https://pypi.example.com/simple", string(got))
}

func TestInstallerFailureIncludesOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	env := filepath.Join(dir, "env")
	writeScript(t, filepath.Join(env, "bin", "pip"), "echo no matching distribution\nexit 1\n")

	manifest := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("flask==99.0\n"), 0o644))

	i, err := NewInstaller()
	require.NoError(t, err)

	err = i.Install(context.Background(), env, manifest)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no matching distribution")
}

func TestInstallerOptionValidation(t *testing.T) {
	t.Parallel()

	_, err := NewInstaller(WithPipCommand(""))
	require.Error(t, err)
}
