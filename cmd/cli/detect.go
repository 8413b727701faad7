package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amrgaberM/codesense/internal/analyzer"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Print the detected language of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", args[0], err)
		}
		cmd.Println(analyzer.DetectLanguage(string(data), args[0]))
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(detectCmd)
}
