package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/snapshot"
)

var (
	extractBudget           int
	extractExtensions       string
	extractRespectGitignore bool
	extractFollowSymlinks   bool
	extractFormat           string
	extractColor            string
)

var extractCmd = &cobra.Command{
	Use:   "extract <directory>",
	Short: "Extract a local directory",
	Long: `Walk a local directory, drop hidden entries, and print the names of all
files together with the content of text files, trimmed to the budget.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().IntVar(&extractBudget, "budget", 0, "Total character budget (default from REPOTEXT_BUDGET or 100000)")
	extractCmd.Flags().StringVar(&extractExtensions, "binary-extensions", "", "Binary extension list, JSON or YAML (default built-in list)")
	extractCmd.Flags().BoolVar(&extractRespectGitignore, "respect-gitignore", false, "Omit paths matched by the root .gitignore")
	extractCmd.Flags().BoolVar(&extractFollowSymlinks, "follow-symlinks", false, "Follow symbolic links")
	extractCmd.Flags().StringVar(&extractFormat, "format", formatJSON, "Output format: json, names, human")
	extractCmd.Flags().StringVar(&extractColor, "color", "auto", "Color output for human format: auto, always, never")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := validateFormat(extractFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	cfg.Budget = intFlag(cmd, "budget", extractBudget, cfg.Budget)
	if err := cfg.Validate(); err != nil {
		return err
	}

	classifier := loadClassifier(stringFlag(cmd, "binary-extensions", extractExtensions, cfg.ExtensionsFile), logger)
	extractor := extract.New(classifier,
		extract.WithLogger(logger),
		extract.WithSnapshotOptions(snapshot.Options{
			RespectGitignore: boolFlag(cmd, "respect-gitignore", extractRespectGitignore, cfg.RespectGitignore),
			FollowSymlinks:   extractFollowSymlinks,
		}),
	)

	svc, closeSvc, err := newService(extractor, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	result, err := svc.ExtractPath(commandContext(cmd), args[0], cfg.Budget)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}
	return writeResult(cmd, result, extractFormat, extractColor)
}
