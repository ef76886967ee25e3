// Package main is the entry point for the wildsea-api server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wildsea-api",
	Short: "Wildsea sheet API server",
	Long:  `wildsea-api serves Wildsea character and ship sheets, crew sessions, and the live sync stream that keeps a table's viewers consistent.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
