package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praetorian-inc/repotext/pkg/api"
	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/snapshot"
)

var (
	httpPort       int
	httpWorkDir    string
	httpHistory    string
	httpBudget     int
	httpExtensions string
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Run the HTTP API",
	Long: `Serve POST /clone, GET /history and GET /healthz.

POST /clone accepts {"repoUrl": "..."} as JSON or form data, clones the
repository into its own working directory, and answers with
{"fileNames": [...], "fileContentArray": [...]}. The working directory is
removed after every request.`,
	RunE: runHTTP,
}

func init() {
	httpCmd.Flags().IntVar(&httpPort, "port", 8080, "Listen port (default from PORT)")
	httpCmd.Flags().StringVar(&httpWorkDir, "workdir", "", "Staging directory for clones (default from REPOTEXT_WORKDIR)")
	httpCmd.Flags().StringVar(&httpHistory, "history", "", "Extraction history database, \":memory:\" for in-process")
	httpCmd.Flags().IntVar(&httpBudget, "budget", 0, "Default total character budget")
	httpCmd.Flags().StringVar(&httpExtensions, "binary-extensions", "", "Binary extension list, JSON or YAML (default built-in list)")
}

func runHTTP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	cfg.Port = intFlag(cmd, "port", httpPort, cfg.Port)
	cfg.WorkDir = stringFlag(cmd, "workdir", httpWorkDir, cfg.WorkDir)
	cfg.HistoryPath = stringFlag(cmd, "history", httpHistory, cfg.HistoryPath)
	cfg.Budget = intFlag(cmd, "budget", httpBudget, cfg.Budget)
	cfg.ExtensionsFile = stringFlag(cmd, "binary-extensions", httpExtensions, cfg.ExtensionsFile)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Extension list is loaded once for the life of the server.
	extractor := extract.New(loadClassifier(cfg.ExtensionsFile, logger),
		extract.WithLogger(logger),
		extract.WithSnapshotOptions(snapshot.Options{RespectGitignore: cfg.RespectGitignore}),
	)
	svc, closeSvc, err := newService(extractor, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting repotext",
		zap.Int("port", cfg.Port),
		zap.String("workDir", cfg.WorkDir),
		zap.Int("budget", cfg.Budget),
		zap.Bool("history", cfg.HistoryPath != ""),
	)
	return api.Serve(ctx, ln, api.NewRouter(svc, logger), logger)
}
