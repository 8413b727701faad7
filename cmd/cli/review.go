package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/github"
	"github.com/amrgaberM/codesense/internal/llm"
	"github.com/amrgaberM/codesense/internal/logger"
)

var (
	analysisType string
	jsonOutput   bool
	outputPath   string
	failOnCrit   bool
)

// Color definitions
var (
	titleColor    = color.New(color.FgCyan, color.Bold)
	successColor  = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	infoColor     = color.New(color.FgWhite)
	dimColor      = color.New(color.FgHiBlack)
	severityColor = map[core.Severity]*color.Color{
		core.SeverityCritical: color.New(color.FgRed, color.Bold),
		core.SeverityHigh:     color.New(color.FgRed),
		core.SeverityMedium:   color.New(color.FgYellow),
		core.SeverityLow:      color.New(color.FgBlue),
		core.SeverityInfo:     color.New(color.FgHiBlack),
	}
)

var reviewCmd = &cobra.Command{
	Use:   "review [paths...]",
	Short: "Review source files or directories with the AI reviewer",
	Long: `Review source files and print the findings.

Directories are walked recursively; files matching the project's ignore
patterns, files over the size cap, and files in unsupported languages are
skipped. Each remaining file is sent to the model provider, the response is
normalized into structured issues, and everything is folded into a single
scored result.

Examples:
  codesense review main.go
  codesense review src/
  codesense review --type security handlers.py store.py
  codesense review --output report.md src/
  codesense review --json main.go > review.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&analysisType, "type", "t", "", "analysis type: general, security, performance, quality")
	reviewCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw ReviewResult as JSON")
	reviewCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file (.json for JSON, anything else for Markdown)")
	reviewCmd.Flags().BoolVar(&failOnCrit, "fail-on-critical", true, "exit non-zero when critical issues are found")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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

	projectCfg, err := config.LoadProjectConfig(".")
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("failed to load .codesense.yml: %w", err)
	}
	if analysisType == "" {
		analysisType = projectCfg.AnalysisType
	}

	paths, err := selectFiles(args, projectCfg)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no reviewable files after applying ignore patterns")
	}

	llmClient, err := llm.NewGroqClient(cfg, log)
	if err != nil {
		return err
	}
	a := analyzer.New(llmClient, log, cfg.MaxWorkers)

	titleColor.Printf("CodeSense AI — reviewing %d file(s)\n", len(paths))
	result := a.ReviewFiles(ctx, paths, core.ParseAnalysisType(analysisType))

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(&result)
	}

	if outputPath != "" {
		if err := writeReport(outputPath, &result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		successColor.Printf("Report written to %s\n", outputPath)
	}

	if failOnCrit && result.HasBlockingIssues() {
		return fmt.Errorf("review found critical issues")
	}
	return nil
}

// selectFiles expands the requested paths into the list of files to review.
// Directories are walked recursively; every candidate is filtered through the
// project ignore list, the size cap, and the supported-language set.
func selectFiles(args []string, projectCfg *core.ProjectConfig) ([]string, error) {
	langs := core.SupportedLanguages()
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}

		if !info.IsDir() {
			if keep, reason := keepFile(arg, info.Size(), projectCfg); keep {
				paths = append(paths, arg)
			} else {
				dimColor.Printf("  skipping %s (%s)\n", arg, reason)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && (strings.HasPrefix(d.Name(), ".") || isIgnored(path, projectCfg.Ignore)) {
					return filepath.SkipDir
				}
				return nil
			}
			// Walked files must be in a supported language; explicitly named
			// files are taken at their word.
			if langs.FromExtension(filepath.Ext(path)) == "" {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if keep, _ := keepFile(path, fi.Size(), projectCfg); keep {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return paths, nil
}

// keepFile applies the project ignore list and size cap to a single file.
func keepFile(path string, size int64, projectCfg *core.ProjectConfig) (bool, string) {
	if isIgnored(path, projectCfg.Ignore) {
		return false, "ignored"
	}
	if size > int64(projectCfg.MaxFileBytes) {
		return false, fmt.Sprintf("larger than %d bytes", projectCfg.MaxFileBytes)
	}
	return true, ""
}

// isIgnored matches a path against project ignore patterns. Patterns ending
// in "/**" match any path under that directory; other patterns match the
// full path or the base name.
func isIgnored(path string, patterns []string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))
	base := filepath.Base(clean)

	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if clean == dir || base == dir || strings.HasPrefix(clean, dir+"/") || strings.Contains(clean, "/"+dir+"/") {
				return true
			}
			continue
		}
		pat := strings.TrimPrefix(pattern, "**/")
		if matched, _ := filepath.Match(pat, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, clean); matched {
			return true
		}
	}
	return false
}

// writeReport exports a result to disk: JSON when the filename ends in .json,
// Markdown otherwise.
func writeReport(path string, result *core.ReviewResult) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var err error
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
	} else {
		data = []byte(github.FormatReviewComment(result) + "\n")
	}
	return os.WriteFile(path, data, 0o644)
}

func printResult(result *core.ReviewResult) {
	separator := strings.Repeat("═", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Println("REVIEW RESULT")
	titleColor.Println(separator)
	dimColor.Printf("review %s · %d file(s)\n\n", result.ReviewID, result.FilesReviewed)

	scoreColor := successColor
	switch {
	case result.QualityScore < 50:
		scoreColor = errorColor
	case result.QualityScore < 80:
		scoreColor = warnColor
	}
	scoreColor.Printf("Quality score: %d/100\n", result.QualityScore)
	infoColor.Println(result.Summary)

	if result.Degraded {
		warnColor.Println("\nWarning: parts of the model response could not be parsed; findings may be incomplete.")
	}

	if len(result.Issues) == 0 {
		fmt.Println()
		successColor.Println("No issues found!")
		return
	}

	fmt.Println()
	for _, issue := range result.Issues {
		c := severityColor[issue.Severity]
		c.Printf("[%s] ", strings.ToUpper(string(issue.Severity)))
		infoColor.Printf("%s", issue.Title)
		dimColor.Printf("  (%s", issue.Category)
		if issue.Line > 0 {
			dimColor.Printf(", line %d", issue.Line)
		}
		dimColor.Println(")")

		if issue.Description != "" {
			fmt.Printf("    %s\n", issue.Description)
		}
		if issue.Suggestion != "" {
			dimColor.Printf("    fix: %s\n", issue.Suggestion)
		}
		fmt.Println()
	}
}
