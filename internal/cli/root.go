package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vitalvas/salmon/internal/config"
)

// BuildInfo is version information passed from main.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}

// app holds state shared by all commands of one invocation.
type app struct {
	build BuildInfo

	// Global flags
	configPath string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger

	// wrapTransport, when set, wraps the transports of discovery and
	// delivery clients.
	wrapTransport func(http.RoundTripper) http.RoundTripper
}

// Execute builds the command tree and runs it against os.Args.
func Execute(build BuildInfo) error {
	return newRootCommand(&app{build: build}).Execute()
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salmon",
		Short: "Sign, verify and deliver Salmon magic envelopes",
		Long: `salmon works with Magic Signatures envelopes.

It can:
- Sign Atom entries into magic envelopes
- Verify envelopes against keys discovered through WebFinger
- Look up WebFinger service descriptions for an account
- Deliver signed envelopes to Salmon endpoints`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ~/.salmon/config.yml if present)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newSignCommand(a))
	rootCmd.AddCommand(newVerifyCommand(a))
	rootCmd.AddCommand(newLookupCommand(a))
	rootCmd.AddCommand(newDeliverCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Salmon Version: %s\n", a.build.Version)
			fmt.Fprintf(out, "Git Commit: %s\n", a.build.GitCommit)
			fmt.Fprintf(out, "Build Time: %s\n", a.build.BuildTime)
		},
	}
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}

	logger, err := newLogger(level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.Load(a.configPath)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultConfig(), nil
	}

	path := filepath.Join(home, ".salmon", "config.yml")
	if _, err := os.Stat(path); err != nil {
		return config.DefaultConfig(), nil
	}

	return config.Load(path)
}

// newLogger builds a console logger writing to w at the given level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)

	return zap.New(core).Named("salmon"), nil
}
