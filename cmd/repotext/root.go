package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praetorian-inc/repotext/pkg/classify"
	"github.com/praetorian-inc/repotext/pkg/clone"
	"github.com/praetorian-inc/repotext/pkg/config"
	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/logging"
	"github.com/praetorian-inc/repotext/pkg/service"
	"github.com/praetorian-inc/repotext/pkg/store"
)

var (
	verbose bool
	quiet   bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "repotext",
	Short: "repotext - turn a repository into a budgeted text listing",
	Long: `repotext materializes a repository's working tree and produces a structured,
size-bounded listing of every file: names for all files and content for text
files, trimmed so the total stays within a character budget.

It runs one-off against a local directory or a remote repository, or as an
HTTP or stdio service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading settings")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads settings from the env file and the environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	logger, err := logging.New(logging.LevelFromFlags(verbose, quiet), "repotext", version)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadClassifier loads the binary extension list once. A list that cannot be
// loaded leaves every file classified as binary.
func loadClassifier(path string, logger *zap.Logger) *classify.Classifier {
	c, err := classify.Load(path)
	if err != nil {
		logger.Error("Failed to load binary extension list, treating every file as binary",
			zap.String("path", path),
			zap.Error(err),
		)
		return c
	}
	logger.Debug("Loaded binary extension list",
		zap.String("path", path),
		zap.Int("extensions", c.Len()),
	)
	return c
}

// newService wires extractor, cloning and the optional history store
// together. The returned function closes the history store.
func newService(extractor *extract.Extractor, cfg config.Config, logger *zap.Logger) (*service.Service, func(), error) {
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithBudget(cfg.Budget),
		service.WithWorkDir(cfg.WorkDir),
		service.WithCloner(clone.NewCloner(
			clone.WithDepth(cfg.CloneDepth),
			clone.WithToken(cfg.GitHubToken),
			clone.WithLogger(logger),
		)),
		service.WithResolver(clone.NewResolver(cfg.GitHubToken)),
	}

	closeFn := func() {}
	if cfg.HistoryPath != "" {
		st, err := store.New(store.Config{Path: cfg.HistoryPath})
		if err != nil {
			return nil, nil, fmt.Errorf("opening history: %w", err)
		}
		opts = append(opts, service.WithHistory(st))
		closeFn = func() {
			if err := st.Close(); err != nil {
				logger.Warn("Failed to close history", zap.Error(err))
			}
		}
	}

	return service.New(extractor, opts...), closeFn, nil
}

// commandContext returns the command's context, or a background context when
// the command was invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// intFlag returns the flag value when the user set it, otherwise fallback.
func intFlag(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func boolFlag(cmd *cobra.Command, name string, value, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
