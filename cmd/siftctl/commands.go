package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/legalsift/docsift/internal/bootstrap"
	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/analysis"
	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
	"github.com/legalsift/docsift/internal/infrastructure/extractor"
	"github.com/legalsift/docsift/internal/infrastructure/report"
	"github.com/legalsift/docsift/internal/infrastructure/resilience"
	"github.com/legalsift/docsift/internal/observability/logging"
)

// completionFactory is swapped in tests.
var completionFactory = func(cfg config.Config, logger *slog.Logger) (ports.CompletionService, error) {
	return bootstrap.NewCompletion(cfg, resilience.NewExecutor(cfg.Resilience).WithLogger(logger))
}

func newRootCommand() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "siftctl",
		Short:        "Extract and risk-assess legal documents from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return logging.NewJSONLoggerTo(cmd.ErrOrStderr(), "siftctl", logLevel)
	}

	root.AddCommand(
		newExtractCommand(logger),
		newAssessCommand(logger),
		newExportCommand(),
		newLanguagesCommand(),
	)
	return root
}

func newExtractCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the plain text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := extractFile(logger(cmd), args[0], format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "declared format (pdf, docx, doc, txt); defaults to the file extension")
	return cmd
}

func newAssessCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		format       string
		documentType string
		language     string
	)
	cmd := &cobra.Command{
		Use:   "assess FILE",
		Short: "Run an AI risk assessment and print the analysis as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType := domain.DocumentType(documentType)
			if !docType.Valid() {
				return fmt.Errorf("unknown document type %q", documentType)
			}
			log := logger(cmd)
			text, _, err := extractFile(log, args[0], format)
			if err != nil {
				return err
			}
			if text == "" {
				return domain.WrapError(domain.ErrEmptyText, "assess", fmt.Errorf("no text extracted from %s", args[0]))
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			completion, err := completionFactory(cfg, log)
			if err != nil {
				return err
			}

			language = domain.ResolveLanguage(language)
			assessment, err := analysis.NewAssessor(completion, analysis.DefaultAssessorConfig(), log).
				Assess(cmd.Context(), text, docType, language)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), domain.Analysis{
				RiskAssessment: assessment.Risk,
				IsAnalyzed:     true,
				AnalyzedAt:     time.Now().UTC(),
				Language:       language,
				Outcome:        assessment.Outcome,
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "declared format; defaults to the file extension")
	cmd.Flags().StringVar(&documentType, "type", string(domain.DocumentTypeOther), "document type, e.g. lease, contract, loan_document")
	cmd.Flags().StringVar(&language, "lang", domain.DefaultLanguage, "response language code")
	return cmd
}

func newExportCommand() *cobra.Command {
	var (
		in   string
		out  string
		name string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render an analysis JSON file as an XLSX risk report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read analysis: %w", err)
			}
			var result domain.Analysis
			if err := json.Unmarshal(raw, &result); err != nil {
				return fmt.Errorf("decode analysis: %w", err)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			}

			payload, err := report.BuildAnalysisWorkbook(&domain.Document{
				ID:           name,
				Filename:     name,
				DocumentType: domain.DocumentTypeOther,
				Analysis:     &result,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(payload))
			return err
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "analysis JSON produced by assess")
	cmd.Flags().StringVar(&out, "out", "report.xlsx", "output workbook path")
	cmd.Flags().StringVar(&name, "name", "", "document name shown in the report")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			languages := domain.SupportedLanguages()
			codes := make([]string, 0, len(languages))
			for code := range languages {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, languages[code]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func extractFile(logger *slog.Logger, path, declared string) (string, domain.FileFormat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	format := domain.ParseFormat(path, "", declared)
	text, err := extractor.New(logger).Extract(data, format)
	if err != nil {
		return "", format, err
	}
	return text, format, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
