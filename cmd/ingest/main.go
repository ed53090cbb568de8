// Command ingest validates and converts driver-lineup CSV files outside the
// HTTP path, in the same style as the original project's single-purpose
// Cobra command-line tools.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paddockml/racesim/internal/ingest"
)

var rootCmd = &cobra.Command{
	Use:     "racesim-ingest",
	Short:   "Validate and convert driver lineup CSV files",
	Version: "dev",
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(convertCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Args:  cobra.ExactArgs(1),
	Short: "Check a driver CSV file for header and row errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		drivers, err := ingest.Parse(f)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Printf("ok: %d drivers parsed\n", len(drivers))
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Args:  cobra.ExactArgs(1),
	Short: "Convert a driver CSV file to JSON on stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		drivers, err := ingest.Parse(f)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(drivers)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
