package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/amrgaberM/codesense/internal/core"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Run: func(cmd *cobra.Command, args []string) {
		langs := core.SupportedLanguages()

		titleColor.Println("Supported languages")
		for _, name := range langs.Names() {
			exts := langs.Extensions(name)
			cmd.Printf("  %-12s %s\n", name, strings.Join(exts, ", "))
		}
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(languagesCmd)
}
