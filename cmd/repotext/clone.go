package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/snapshot"
)

var (
	cloneBudget     int
	cloneDepth      int
	cloneWorkDir    string
	cloneExtensions string
	cloneToken      string
	cloneFormat     string
	cloneColor      string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url|owner/repo>",
	Short: "Clone a repository and extract it",
	Long: `Clone a repository into a temporary working directory, extract it, print the
result, and remove the working directory.

GitHub shorthand (owner/repo) is resolved through the GitHub API. Set
GITHUB_TOKEN or --token for private repositories.`,
	Args: cobra.ExactArgs(1),
	RunE: runClone,
}

func init() {
	cloneCmd.Flags().IntVar(&cloneBudget, "budget", 0, "Total character budget (default from REPOTEXT_BUDGET or 100000)")
	cloneCmd.Flags().IntVar(&cloneDepth, "depth", 1, "Clone depth, 0 for full history")
	cloneCmd.Flags().StringVar(&cloneWorkDir, "workdir", "", "Staging directory for the clone (default from REPOTEXT_WORKDIR)")
	cloneCmd.Flags().StringVar(&cloneExtensions, "binary-extensions", "", "Binary extension list, JSON or YAML (default built-in list)")
	cloneCmd.Flags().StringVar(&cloneToken, "token", "", "GitHub token (default from GITHUB_TOKEN)")
	cloneCmd.Flags().StringVar(&cloneFormat, "format", formatJSON, "Output format: json, names, human")
	cloneCmd.Flags().StringVar(&cloneColor, "color", "auto", "Color output for human format: auto, always, never")
}

func runClone(cmd *cobra.Command, args []string) error {
	if err := validateFormat(cloneFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	cfg.Budget = intFlag(cmd, "budget", cloneBudget, cfg.Budget)
	cfg.CloneDepth = intFlag(cmd, "depth", cloneDepth, cfg.CloneDepth)
	cfg.WorkDir = stringFlag(cmd, "workdir", cloneWorkDir, cfg.WorkDir)
	cfg.GitHubToken = stringFlag(cmd, "token", cloneToken, cfg.GitHubToken)
	cfg.ExtensionsFile = stringFlag(cmd, "binary-extensions", cloneExtensions, cfg.ExtensionsFile)
	if err := cfg.Validate(); err != nil {
		return err
	}

	extractor := extract.New(loadClassifier(cfg.ExtensionsFile, logger),
		extract.WithLogger(logger),
		extract.WithSnapshotOptions(snapshot.Options{RespectGitignore: cfg.RespectGitignore}),
	)
	svc, closeSvc, err := newService(extractor, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	result, err := svc.ExtractRepo(commandContext(cmd), args[0], cfg.Budget)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}
	return writeResult(cmd, result, cloneFormat, cloneColor)
}
