package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/serve"
	"github.com/praetorian-inc/repotext/pkg/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server over stdin and stdout",
	Long: `Run repotext as a long-lived streaming server that accepts extraction
requests via stdin and writes results to stdout using NDJSON format.

Request types are "extract" ({"path", "budget"}), "clone" ({"repoUrl",
"budget"}) and "close". The process loads the binary extension list once at
startup and processes requests until stdin closes or SIGTERM is received.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	extractor := extract.New(loadClassifier(cfg.ExtensionsFile, logger),
		extract.WithLogger(logger),
		extract.WithSnapshotOptions(snapshot.Options{RespectGitignore: cfg.RespectGitignore}),
	)
	svc, closeSvc, err := newService(extractor, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := serve.NewServer(svc, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
