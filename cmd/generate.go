// File: cmd/generate.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/config"
	"github.com/quellen-sec/scanforge/internal/observability"
	"github.com/quellen-sec/scanforge/internal/pipeline"
)

// newGenerateCmd creates and configures the `generate` command.
func newGenerateCmd() *cobra.Command {
	var (
		org        string
		preparer   string
		dateStr    string
		template   string
		logoRef    string
		outputPath string
	)

	generateCmd := &cobra.Command{
		Use:   "generate [scan files...]",
		Short: "Generate an assessment document from scanner export files",
		Long: `Reads the listed scanner XML export files, consolidates their findings into
a de-duplicated per-host view, and writes a severity-ordered assessment
document. Files that fail to parse are skipped with a warning; the document is
produced from whatever files remain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			meta, err := buildMetadata(cfg, org, preparer, dateStr, template, logoRef)
			if err != nil {
				return err
			}

			// Bare output names land in the configured output directory.
			if filepath.Dir(outputPath) == "." && cfg.Report.OutputDir != "" {
				outputPath = filepath.Join(cfg.Report.OutputDir, outputPath)
			}

			// Delegate to the testable core logic function.
			return runGenerate(cmd.Context(), logger, args, meta, outputPath)
		},
	}

	generateCmd.Flags().StringVar(&org, "org", "", "Organization the report is prepared for (required unless set in config)")
	generateCmd.Flags().StringVar(&preparer, "preparer", "", "Name of the report preparer (required unless set in config)")
	generateCmd.Flags().StringVar(&dateStr, "date", "", "Report date as YYYY-MM-DD (default: today)")
	generateCmd.Flags().StringVar(&template, "template", "", "Document template: simple, professional, or executive")
	generateCmd.Flags().StringVar(&logoRef, "logo", "", "Optional logo image reference placed on the cover")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "report.json", "Output file path for the document definition")

	return generateCmd
}

// buildMetadata resolves report metadata from flags layered over config
// defaults, and validates the result.
func buildMetadata(cfg config.Config, org, preparer, dateStr, template, logoRef string) (schemas.Metadata, error) {
	if org == "" {
		org = cfg.Report.Organization
	}
	if preparer == "" {
		preparer = cfg.Report.Preparer
	}
	if template == "" {
		template = cfg.Report.Template
	}

	if org == "" {
		return schemas.Metadata{}, fmt.Errorf("organization name is required (--org or report.organization in config)")
	}
	if preparer == "" {
		return schemas.Metadata{}, fmt.Errorf("preparer name is required (--preparer or report.preparer in config)")
	}

	tmpl, err := config.ParseTemplate(template)
	if err != nil {
		return schemas.Metadata{}, err
	}

	date := time.Now()
	if dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return schemas.Metadata{}, fmt.Errorf("invalid report date %q (expected YYYY-MM-DD): %w", dateStr, err)
		}
	}

	return schemas.Metadata{
		Organization: org,
		Date:         date,
		Preparer:     preparer,
		Template:     tmpl,
		LogoRef:      logoRef,
	}, nil
}

// runGenerate contains the core, testable logic for the generate command.
func runGenerate(ctx context.Context, logger *zap.Logger, paths []string, meta schemas.Metadata, outputPath string) error {
	files := make([]pipeline.InputFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			// Unreadable files are a shell concern; treat them like parse
			// failures and keep going with the rest of the batch.
			logger.Warn("Skipping unreadable scan file", zap.String("file", path), zap.Error(err))
			continue
		}
		files = append(files, pipeline.InputFile{Name: filepath.Base(path), Content: content})
	}

	progress := pipeline.ProgressFunc(func(percent int) {
		logger.Debug("Pipeline progress", zap.Int("percent", percent))
	})

	generator := pipeline.NewGenerator(logger, pipeline.WithProgress(progress))
	result, err := generator.Generate(ctx, files, meta)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	for _, failure := range result.FailedFiles {
		logger.Warn("Scan file excluded from report",
			zap.String("file", failure.Name),
			zap.Error(failure.Err),
		)
	}

	if err := os.WriteFile(outputPath, result.Document, 0o644); err != nil {
		return fmt.Errorf("failed to write document to %s: %w", outputPath, err)
	}

	logger.Info("Assessment document written",
		zap.String("path", outputPath),
		zap.String("content_type", result.ContentType),
		zap.Int("hosts", result.Hosts),
		zap.Int("findings", result.Totals.Sum()),
		zap.Int("failed_files", len(result.FailedFiles)),
	)
	return nil
}

func init() {
	rootCmd.AddCommand(newGenerateCmd())
}
