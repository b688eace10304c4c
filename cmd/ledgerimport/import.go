package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledger-tools/ledgerimport/internal/categorize"
	"github.com/ledger-tools/ledgerimport/internal/cli"
	"github.com/ledger-tools/ledgerimport/internal/config"
	"github.com/ledger-tools/ledgerimport/internal/importer"
	"github.com/ledger-tools/ledgerimport/internal/progress"
	"github.com/ledger-tools/ledgerimport/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from every configured account",
		Long: `Reads config.toml, walks each account's source directory, categorizes
every transaction it finds, and writes the result to the database.`,
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "run the full pipeline against an in-memory database and print the summary without touching the real database file")
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	cmd.Flags().Bool("lenient", false, "tolerate common real-world OFX/QFX malformations (mixed-case SEVERITY, missing closing angle brackets) instead of rejecting them")
	_ = viper.BindPFlag("import.lenient", cmd.Flags().Lookup("lenient"))

	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)

	var prog progress.State
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		cli.RenderProgress(ctx, os.Stderr, &prog)
	}()

	prog.SetStep(progress.LoadingConfig)
	slog.Info(cli.FormatTitle("Loading configuration"))
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	prog.SetStep(progress.BuildingRules)
	cat, err := categorize.Build(cfg.TransactionType, cfg.Rule)
	if err != nil {
		return fmt.Errorf("failed to build categorizer: %w", err)
	}

	dbPath := viper.GetString("db")
	if viper.GetBool("import.dry_run") {
		dbPath = ":memory:"
	}

	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("failed to close database", "error", closeErr)
		}
	}()

	if err := importer.Run(ctx, store, cat, &prog, cfg.Account, viper.GetBool("import.lenient")); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	<-progressDone

	counts, err := store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize run: %w", err)
	}

	fmt.Println(cli.FormatRunSummary(cli.RunSummary{
		AccountsSeen:    counts.Accounts,
		Categorized:     counts.Categorized,
		Uncategorized:   counts.Uncategorized,
		DurationSeconds: time.Since(start).Seconds(),
	}))

	return nil
}
