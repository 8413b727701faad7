package main

import (
	"github.com/spf13/cobra"

	"github.com/amrgaberM/codesense/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CodeSense version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("codesense %s\n", server.Version)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(versionCmd)
}
