package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/binary"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/fetch"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/manifest"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/platform"
)

type options struct {
	dir        string
	configPath string
	targetPath string
	version    string
	verbose    bool
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gadgetfetch",
		Short: "Ensure the versioned gadget library is downloaded",
		Long: `gadgetfetch makes sure the gadget matching a package's version is present
next to its package.json. Older gadget versions in that directory are removed.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logOut, opts.verbose)
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), opts, config.NewZapLogger(logger))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "C", "", "package directory holding package.json (default: current directory)")
	flags.StringVar(&opts.configPath, "config", "", "Lua config file (default: <dir>/"+config.DefaultFile+" when present)")
	flags.StringVar(&opts.targetPath, "target", "", "install to this path instead of the one derived from package.json")
	flags.StringVar(&opts.version, "gadget-version", "", "gadget version to install, requires --target")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every step")
	cmd.MarkFlagsRequiredTogether("target", "gadget-version")

	return cmd
}

// newLogger writes human-readable logs to w. Only warnings and errors are
// shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func run(ctx context.Context, opts *options, logger config.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	dir := opts.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}

	settings, err := loadSettings(ctx, platform.Detected(info), dir, opts.configPath)
	if err != nil {
		return err
	}
	if opts.dir == "" && settings.PackageDir != "" {
		dir = settings.PackageDir
	}

	target, err := resolveTarget(dir, opts, settings)
	if err != nil {
		return err
	}

	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = info.UserAgent("gadgetfetch/" + strings.TrimPrefix(Version, "v"))
	}

	installer, err := binary.NewInstaller(binary.Config{
		Settings:     settings,
		PlatformInfo: info,
		Fetcher:      fetch.New(fetch.WithUserAgent(userAgent), fetch.WithTimeout(settings.Timeout)),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	return installer.EnsureInstalled(ctx, target)
}

// loadSettings evaluates the Lua config at path, or the default config file
// in dir when path is empty. Without either the built-in defaults apply.
func loadSettings(ctx context.Context, detector platform.Detector, dir, path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, config.DefaultFile)
	}

	settings, err := config.NewParser(detector).ParseFile(ctx, path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return settings, nil
}

func resolveTarget(dir string, opts *options, settings *config.Config) (binary.Target, error) {
	if opts.targetPath == "" {
		return manifest.Resolve(dir, settings)
	}

	path, err := filepath.Abs(opts.targetPath)
	if err != nil {
		return binary.Target{}, fmt.Errorf("resolve target: %w", err)
	}
	return binary.Target{Path: path, Version: manifest.ReleaseVersion(opts.version)}, nil
}
