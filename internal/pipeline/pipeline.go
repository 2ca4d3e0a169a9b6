// File: internal/pipeline/pipeline.go
// Description: Runs the normalize -> aggregate -> totals -> synthesize flow
// over a batch of scanner export files. The stages execute strictly
// sequentially in file-list order; merge tie-breaks depend on that order.

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/aggregate"
	"github.com/quellen-sec/scanforge/internal/normalize"
	"github.com/quellen-sec/scanforge/internal/report"
	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

// InputFile is one already-read scanner export.
type InputFile struct {
	Name    string
	Content []byte
}

// FileFailure records a single file that could not be parsed. It never aborts
// the batch; the report is produced from whatever files succeeded.
type FileFailure struct {
	Name string
	Err  error
}

// Result is the successful outcome of a pipeline run. FailedFiles tells the
// caller which inputs were skipped, so "partially degraded" and "fully
// succeeded" runs stay distinguishable from a fatal error.
type Result struct {
	// Document is the serialized document definition, ready for download.
	Document []byte
	// ContentType declares the media type of Document.
	ContentType string
	// FailedFiles lists the inputs dropped due to parse failures.
	FailedFiles []FileFailure
	// Hosts and Totals summarize what went into the document.
	Hosts  int
	Totals schemas.Totals
}

// Progress receives monotonically non-decreasing completion percentages at
// fixed checkpoints. Implementations are called synchronously on the pipeline
// goroutine and must not block.
type Progress interface {
	Update(percent int)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(percent int)

func (f ProgressFunc) Update(percent int) { f(percent) }

type nopProgress struct{}

func (nopProgress) Update(int) {}

// Progress share assigned to the normalization phase; the remaining
// checkpoints split the rest.
const (
	normalizeShare = 60
	aggregatePct   = 75
	totalsPct      = 85
	donePct        = 100
)

// Generator runs the report pipeline. Each call to Generate owns its working
// state exclusively; there is no memory across invocations.
type Generator struct {
	logger   *zap.Logger
	progress Progress
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress installs a progress observer. The default is a no-op.
func WithProgress(p Progress) Option {
	return func(g *Generator) {
		if p != nil {
			g.progress = p
		}
	}
}

// NewGenerator creates a Generator.
func NewGenerator(logger *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger:   logger.Named("pipeline"),
		progress: nopProgress{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline over the given files and metadata. A file
// that fails to parse is recorded in the result and skipped, including the
// degenerate case where every file fails and the document reports zero hosts.
// Any other failure aborts the run with no partial output. Once started the
// pipeline runs to completion; ctx is only honored before work begins.
func (g *Generator) Generate(ctx context.Context, files []InputFile, meta schemas.Metadata) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline not started: %w", err)
	}

	g.logger.Info("Starting report pipeline",
		zap.Int("files", len(files)),
		zap.String("organization", meta.Organization),
		zap.String("template", string(meta.Template)),
	)

	batches := make([][]schemas.Host, 0, len(files))
	var failed []FileFailure
	for i, file := range files {
		hosts, err := normalize.File(file.Name, file.Content, g.logger)
		if err != nil {
			var parseErr *normalize.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("normalizing %q: %w", file.Name, err)
			}
			g.logger.Warn("Skipping unparseable scan file",
				zap.String("file", file.Name),
				zap.Error(err),
			)
			failed = append(failed, FileFailure{Name: file.Name, Err: err})
		} else {
			batches = append(batches, hosts)
		}
		g.progress.Update((i + 1) * normalizeShare / len(files))
	}

	hosts := aggregate.Merge(batches)
	g.progress.Update(aggregatePct)

	totals := aggregate.Totals(hosts)
	g.progress.Update(totalsPct)

	synth := report.NewSynthesizer(meta.Template, g.logger)
	doc := synth.Build(hosts, totals, meta)

	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document definition: %w", err)
	}
	g.progress.Update(donePct)

	g.logger.Info("Report pipeline finished",
		zap.Int("hosts", len(hosts)),
		zap.Int("findings", totals.Sum()),
		zap.Int("failed_files", len(failed)),
		zap.Int("document_bytes", len(buf)),
	)

	return &Result{
		Document:    buf,
		ContentType: docmodel.ContentType,
		FailedFiles: failed,
		Hosts:       len(hosts),
		Totals:      totals,
	}, nil
}
