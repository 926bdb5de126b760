package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/homewatch/dashboard/cmd/familyctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "familyctl",
		Short:        "Administration tools for the household dashboard",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.FamilyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
