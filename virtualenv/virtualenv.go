// Package virtualenv builds Python environments by shelling out to the
// virtualenv and pip commands.
//
// The package provides a [Builder] that creates empty environments, an
// [Installer] that populates them from a requirements manifest, and a
// [PipPatch] that works around a packaging bug in older pip releases.
// All three plug into the cache through the interfaces defined in the
// parent package.
package virtualenv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/meigma/venvcache"
)

// Default commands used when no option overrides them.
const (
	DefaultCreateCommand = "virtualenv"
	DefaultPipCommand    = "pip"
)

// Builder creates empty environments by running an external command,
// virtualenv by default.
type Builder struct {
	command string
	args    []string
	python  string
	output  io.Writer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithCreateCommand replaces the command used to create environments.
// Extra arguments are passed before the target path, so
// WithCreateCommand("python3", "-m", "venv") switches to the stdlib
// venv module.
func WithCreateCommand(command string, args ...string) BuilderOption {
	return func(b *Builder) error {
		if command == "" {
			return fmt.Errorf("virtualenv: create command must not be empty")
		}
		b.command = command
		b.args = args
		return nil
	}
}

// WithPython selects the interpreter new environments are built around.
func WithPython(path string) BuilderOption {
	return func(b *Builder) error {
		b.python = path
		return nil
	}
}

// WithCreateOutput streams creation output to w as it is produced.
// Output is always captured for error reporting regardless.
func WithCreateOutput(w io.Writer) BuilderOption {
	return func(b *Builder) error {
		b.output = w
		return nil
	}
}

// NewBuilder returns a Builder running the virtualenv command.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{command: DefaultCreateCommand}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Create builds an empty environment at path.
func (b *Builder) Create(ctx context.Context, path string) error {
	args := make([]string, 0, len(b.args)+2)
	args = append(args, b.args...)
	if b.python != "" {
		args = append(args, "--python="+b.python)
	}
	args = append(args, path)

	return run(exec.CommandContext(ctx, b.command, args...), b.output)
}

// Installer populates environments by running pip inside them.
type Installer struct {
	command string
	args    []string
	output  io.Writer
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer) error

// WithPipCommand replaces the pip executable name resolved inside the
// environment's bin directory.
func WithPipCommand(command string) InstallerOption {
	return func(i *Installer) error {
		if command == "" {
			return fmt.Errorf("virtualenv: pip command must not be empty")
		}
		i.command = command
		return nil
	}
}

// WithInstallArgs appends extra arguments to every pip install run,
// for example an alternate index URL.
func WithInstallArgs(args ...string) InstallerOption {
	return func(i *Installer) error {
		i.args = append(i.args, args...)
		return nil
	}
}

// WithInstallOutput streams install output to w as it is produced.
// Output is always captured for error reporting regardless.
func WithInstallOutput(w io.Writer) InstallerOption {
	return func(i *Installer) error {
		i.output = w
		return nil
	}
}

// NewInstaller returns an Installer running pip from the target
// environment.
func NewInstaller(opts ...InstallerOption) (*Installer, error) {
	i := &Installer{command: DefaultPipCommand}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// Install runs pip install -r manifestPath inside the environment at
// path. The child process sees the same environment a sourced activate
// script would set up.
func (i *Installer) Install(ctx context.Context, path, manifestPath string) error {
	pip := filepath.Join(path, "bin", i.command)
	args := make([]string, 0, len(i.args)+3)
	args = append(args, "install", "-r", manifestPath)
	args = append(args, i.args...)

	cmd := exec.CommandContext(ctx, pip, args...)
	cmd.Env = activatedEnv(path)

	return run(cmd, i.output)
}

// activatedEnv mirrors what bin/activate exports: VIRTUAL_ENV pointing
// at the environment and its bin directory first on PATH. Later entries
// win when os/exec deduplicates.
func activatedEnv(path string) []string {
	bin := filepath.Join(path, "bin")
	return append(os.Environ(),
		"VIRTUAL_ENV="+path,
		"PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"),
	)
}

// run executes cmd with stdout and stderr combined. The output is
// buffered and folded into the error on failure.
func run(cmd *exec.Cmd, output io.Writer) error {
	var buf bytes.Buffer
	var sink io.Writer = &buf
	if output != nil {
		sink = io.MultiWriter(&buf, output)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		if out := strings.TrimSpace(buf.String()); out != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(cmd.Path), err, out)
		}
		return fmt.Errorf("%s: %w", filepath.Base(cmd.Path), err)
	}

	return nil
}

var (
	_ venvcache.Builder   = (*Builder)(nil)
	_ venvcache.Installer = (*Installer)(nil)
)
