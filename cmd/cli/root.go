package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var groqAPIKey string

var rootCmd = &cobra.Command{
	Use:   "codesense",
	Short: "codesense is an AI-powered code review assistant.",
	Long:  `A CLI for reviewing source code with an LLM: point it at files and get back structured findings with severities, categories, and fix suggestions.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&groqAPIKey, "api-key", "k", "", "Groq API key")

	if err := viper.BindPFlag("GROQ_API_KEY", rootCmd.PersistentFlags().Lookup("api-key")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
