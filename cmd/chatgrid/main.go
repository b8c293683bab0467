package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatgridhq/chatgrid/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "chatgrid",
		Short:         "WhatsApp webhook ingestion and conversation sync engine",
		Version:       version.GetInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
