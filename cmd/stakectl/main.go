package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag       string
	authorityFlag string
	rootCmd       = &cobra.Command{
		Use:   "stakectl",
		Short: "CLI client for the stake ledger REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Stake ledger base URL")
	rootCmd.PersistentFlags().StringVar(&authorityFlag, "authority", "", "Authority address for gated operations")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
