// Command venvcache builds Python virtual environments from pip
// requirements files and caches them for reuse.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meigma/venvcache"
	"github.com/meigma/venvcache/manifest"
	"github.com/meigma/venvcache/virtualenv"
)

var (
	// Persistent flags.
	cfgPath   string
	directory string
	logLevel  string
	logFormat string

	// Build flags.
	requirements   []string
	keepBroken     bool
	fixPip         bool
	activateScript string
	python         string
	installArgs    []string

	cfg    *config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "venvcache",
	Short: "Build and cache Python virtual environments",
	Long: `venvcache builds Python virtual environments from pip requirements
files and caches them under a directory keyed by the resolved set of
requirements. Running it again with the same requirements reuses the
cached environment instead of rebuilding it.

The environment path is printed on stdout so scripts can source it:

  env=$(venvcache -r requirements.txt)
  . "$env/bin/activate"`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Assigned here rather than in the literal to avoid an
	// initialization cycle: runBuild reaches cacheDirectory, which
	// reads rootCmd's flags.
	rootCmd.RunE = runBuild

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.config/venvcache/config.yaml)")
	pf.StringVarP(&directory, "directory", "d", "", "directory where cached environments go (default ~/.cache/venvcache)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	addRequirementsFlag(rootCmd)
	rootCmd.Flags().BoolVarP(&keepBroken, "keep-broken", "k", false, "keep the environment if there was an error while building it")
	rootCmd.Flags().BoolVar(&fixPip, "fix-pip", false, "fix pip problem with urlparse fragment registration")
	rootCmd.Flags().StringVarP(&activateScript, "activate-script", "a", "", "symlink the activation script to the given path")
	rootCmd.Flags().StringVar(&python, "python", "", "interpreter to build environments around")
	rootCmd.Flags().StringArrayVar(&installArgs, "install-arg", nil, "extra argument passed to pip install (repeatable)")

	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(removeCmd)
}

// addRequirementsFlag registers the repeatable -r flag. The root and
// key commands each take their own copy because both require it.
func addRequirementsFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&requirements, "requirements", "r", nil, "pip requirements file (repeatable)")
	_ = cmd.MarkFlagRequired("requirements")
}

// setup loads the config file and prepares the logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig(cfgPath, cmd.Root().PersistentFlags().Changed("config"))
	if err != nil {
		return err
	}

	level := logLevel
	if !cmd.Root().PersistentFlags().Changed("log-level") && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	format := logFormat
	if !cmd.Root().PersistentFlags().Changed("log-format") && cfg.LogFormat != "" {
		format = cfg.LogFormat
	}
	logger = newLogger(level, format, os.Stderr)

	return nil
}

// cacheDirectory resolves the cache directory from the flag, the
// config file, or the default under the user cache directory.
func cacheDirectory() (string, error) {
	if rootCmd.PersistentFlags().Changed("directory") {
		return directory, nil
	}
	if cfg.Directory != "" {
		return cfg.Directory, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "venvcache"), nil
}

// newCache assembles the cache with the toolchain described by flags
// and config. Subprocess output streams to stderr so stdout stays
// reserved for the environment path.
func newCache(cmd *cobra.Command) (*venvcache.Cache, error) {
	dir, err := cacheDirectory()
	if err != nil {
		return nil, err
	}

	bopts := []virtualenv.BuilderOption{virtualenv.WithCreateOutput(os.Stderr)}
	if len(cfg.CreateCommand) > 0 {
		bopts = append(bopts, virtualenv.WithCreateCommand(cfg.CreateCommand[0], cfg.CreateCommand[1:]...))
	}
	if py := stringSetting(cmd, "python", python, cfg.Python); py != "" {
		bopts = append(bopts, virtualenv.WithPython(py))
	}
	builder, err := virtualenv.NewBuilder(bopts...)
	if err != nil {
		return nil, err
	}

	iopts := []virtualenv.InstallerOption{virtualenv.WithInstallOutput(os.Stderr)}
	if extra := cfg.InstallArgs; len(extra) > 0 {
		iopts = append(iopts, virtualenv.WithInstallArgs(extra...))
	}
	if len(installArgs) > 0 {
		iopts = append(iopts, virtualenv.WithInstallArgs(installArgs...))
	}
	installer, err := virtualenv.NewInstaller(iopts...)
	if err != nil {
		return nil, err
	}

	copts := []venvcache.Option{venvcache.WithLogger(logger)}
	if boolSetting(cmd, "keep-broken", keepBroken, cfg.KeepBroken) {
		copts = append(copts, venvcache.WithKeepBroken())
	}
	if boolSetting(cmd, "fix-pip", fixPip, cfg.FixPip) {
		copts = append(copts, venvcache.WithPatcher(&virtualenv.PipPatch{}))
	}

	return venvcache.New(dir, builder, installer, copts...)
}

// stringSetting prefers an explicitly set flag over the config file.
func stringSetting(cmd *cobra.Command, name, flagValue, cfgValue string) string {
	if cmd.Flags().Changed(name) || cfgValue == "" {
		return flagValue
	}
	return cfgValue
}

// boolSetting prefers an explicitly set flag over the config file.
func boolSetting(cmd *cobra.Command, name string, flagValue, cfgValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return cfgValue
}

func parseRequirements() (*manifest.Collection, error) {
	return manifest.NewParser().ParseFiles(requirements...)
}

func runBuild(cmd *cobra.Command, args []string) error {
	reqs, err := parseRequirements()
	if err != nil {
		return err
	}

	c, err := newCache(cmd)
	if err != nil {
		return err
	}

	env, err := c.Get(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	if activateScript != "" {
		if err := linkActivate(env.ActivateScript(), activateScript); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), env.Path())
	return nil
}

// linkActivate symlinks the environment's activation script to target.
// An existing symlink at the target is replaced; anything else there is
// left untouched and reported as an error.
func linkActivate(script, target string) error {
	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("inspect %s: %w", target, err)
	case info.Mode()&os.ModeSymlink == 0:
		return fmt.Errorf("refusing to replace %s: not a symlink", target)
	default:
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("replace %s: %w", target, err)
		}
	}

	if err := os.Symlink(script, target); err != nil {
		return fmt.Errorf("symlink activation script: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "venvcache:", err)
		os.Exit(1)
	}
}
