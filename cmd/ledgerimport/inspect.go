package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledger-tools/ledgerimport/internal/ofx"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.qfx>",
		Short: "List the accounts found in an OFX/QFX file without importing it",
		Long: `Reads an OFX/QFX file and prints the ACCTID values it declares, useful
for writing an account's [[account]] entry in config.toml by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
}

func runInspect(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	accounts, err := ofx.GetAccounts(f)
	if err != nil {
		return fmt.Errorf("failed to read accounts from %s: %w", args[0], err)
	}

	if len(accounts) == 0 {
		fmt.Println("no accounts found")
		return nil
	}
	for _, account := range accounts {
		fmt.Println(account)
	}
	return nil
}
