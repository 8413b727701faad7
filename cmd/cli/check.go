package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/llm"
	"github.com/amrgaberM/codesense/internal/logger"
)

var (
	checkLanguage string
	checkType     string
)

var checkCmd = &cobra.Command{
	Use:   "check [code]",
	Short: "Review an inline code snippet",
	Long: `Review a code snippet passed as an argument, or piped on stdin when
the argument is "-".

Examples:
  codesense check --language python 'eval(input())'
  cat snippet.py | codesense check --language python -`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	checkCmd.Flags().StringVarP(&checkLanguage, "language", "l", "", "language of the snippet (detected when omitted)")
	checkCmd.Flags().StringVarP(&checkType, "type", "t", "", "analysis type: general, security, performance, quality")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	code := args[0]
	if code == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		code = string(data)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if key := viper.GetString("GROQ_API_KEY"); key != "" {
		cfg.GroqAPIKey = key
	}
	if cfg.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is not set\n\nTip: export GROQ_API_KEY or pass --api-key")
	}

	log := logger.NewLogger(cfg.Log, os.Stderr)
	llmClient, err := llm.NewGroqClient(cfg, log)
	if err != nil {
		return err
	}
	a := analyzer.New(llmClient, log, 1)

	review, err := a.ReviewCode(context.Background(), core.AnalysisRequest{
		Code:         code,
		Language:     checkLanguage,
		AnalysisType: core.ParseAnalysisType(checkType),
	})
	if err != nil {
		return err
	}

	result := analyzer.Aggregate([]core.FileReview{review})
	printResult(&result)
	return nil
}
