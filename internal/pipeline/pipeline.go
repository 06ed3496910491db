// Package pipeline turns the two yearly publication tables into a validated
// canonical dataset with derived metrics.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/ingest"
	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

const instrumentationName = "github.com/KeremDpdo/research-publication-dashboard/internal/pipeline"

// Result is the output of one pipeline run. It is never mutated after Run returns.
type Result struct {
	Records         []domain.CanonicalRecord `json:"records"`
	Removed         []domain.RemovedRecord   `json:"removed"`
	Unmapped        domain.UnmappedValues    `json:"unmapped"`
	TitleInferred   bool                     `json:"title_inferred"`
	SkippedRows     int                      `json:"skipped_rows"`
	FacultyOrder    taxonomy.Ordering        `json:"faculty_order"`
	DepartmentOrder taxonomy.Ordering        `json:"department_order"`
}

// Pipeline runs unify, normalize, filter and derive in order
type Pipeline struct {
	normalizer *taxonomy.Normalizer
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *runMetrics
}

// New creates a pipeline using the global OpenTelemetry providers
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "pipeline"))
	return &Pipeline{
		normalizer: taxonomy.NewNormalizer(logger),
		logger:     logger,
		tracer:     otel.Tracer(instrumentationName),
		metrics:    newRunMetrics(otel.Meter(instrumentationName), logger),
	}
}

// Normalizer exposes the taxonomy in use, for reverse lookups by callers
func (p *Pipeline) Normalizer() *taxonomy.Normalizer {
	return p.normalizer
}

// Run processes both tables. Any ingestion failure aborts the run without a
// partial result.
func (p *Pipeline) Run(ctx context.Context, previous, current *ingest.Table) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.Run")
	defer span.End()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if previous == nil || current == nil {
		return nil, p.fail(ctx, span, apperrors.NewIngestionError("both yearly tables are required", nil))
	}

	_, unifySpan := p.tracer.Start(ctx, "pipeline.unify")
	unified, err := Unify(previous, current)
	unifySpan.End()
	if err != nil {
		var tce *TypeConversionError
		if errors.As(err, &tce) {
			err = apperrors.NewTypeConversionError("non-numeric publication count", tce).
				WithContext("column", tce.Column).
				WithContext("year", string(tce.Year)).
				WithContext("row", tce.Row).
				WithContext("value", tce.Value)
		} else {
			err = apperrors.NewIngestionError("failed to unify tables", err)
		}
		return nil, p.fail(ctx, span, err)
	}

	_, normSpan := p.tracer.Start(ctx, "pipeline.normalize")
	normalized := p.normalizer.Normalize(unified.Records, unified.TitleColumn)
	normSpan.End()

	kept, removed := FilterNegative(normalized.Records)
	records := Derive(kept)

	result := &Result{
		Records:         records,
		Removed:         removed,
		Unmapped:        normalized.Unmapped,
		TitleInferred:   normalized.TitleInferred,
		SkippedRows:     unified.Skipped,
		FacultyOrder:    p.normalizer.FacultyOrdering(records),
		DepartmentOrder: p.normalizer.DepartmentOrdering(records),
	}

	span.SetAttributes(
		attribute.Int("pipeline.records", len(records)),
		attribute.Int("pipeline.removed", len(removed)),
		attribute.Int("pipeline.unmapped_faculties", len(result.Unmapped.Faculties)),
		attribute.Int("pipeline.unmapped_departments", len(result.Unmapped.Departments)),
	)
	p.metrics.record(ctx, result, time.Since(start))

	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("input_rows", len(unified.Records)),
		slog.Int("records", len(records)),
		slog.Int("removed_entries", len(removed)),
		slog.Int("skipped_rows", unified.Skipped),
		slog.Bool("title_inferred", result.TitleInferred),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.metrics.failures.Add(ctx, 1)
	p.logger.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
	return err
}

type runMetrics struct {
	runs     metric.Int64Counter
	failures metric.Int64Counter
	records  metric.Int64Counter
	removed  metric.Int64Counter
	unmapped metric.Int64Counter
	duration metric.Float64Histogram
}

func newRunMetrics(meter metric.Meter, logger *slog.Logger) *runMetrics {
	m, err := buildRunMetrics(meter)
	if err != nil {
		logger.Warn("pipeline metrics unavailable", slog.String("error", err.Error()))
		m, _ = buildRunMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func buildRunMetrics(meter metric.Meter) (*runMetrics, error) {
	var m runMetrics
	var err error
	if m.runs, err = meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Completed pipeline runs")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter("pipeline_failures_total",
		metric.WithDescription("Pipeline runs aborted by an ingestion error")); err != nil {
		return nil, err
	}
	if m.records, err = meter.Int64Counter("pipeline_records_total",
		metric.WithDescription("Canonical researcher-year records produced")); err != nil {
		return nil, err
	}
	if m.removed, err = meter.Int64Counter("pipeline_removed_entries_total",
		metric.WithDescription("Audit entries for rows dropped by the negative-count filter")); err != nil {
		return nil, err
	}
	if m.unmapped, err = meter.Int64Counter("pipeline_unmapped_values_total",
		metric.WithDescription("Distinct taxonomy values not found in the vocabularies")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *runMetrics) record(ctx context.Context, r *Result, d time.Duration) {
	m.runs.Add(ctx, 1)
	m.records.Add(ctx, int64(len(r.Records)))
	m.removed.Add(ctx, int64(len(r.Removed)))
	m.unmapped.Add(ctx, int64(len(r.Unmapped.Faculties)), metric.WithAttributes(attribute.String("field", "faculty")))
	m.unmapped.Add(ctx, int64(len(r.Unmapped.Departments)), metric.WithAttributes(attribute.String("field", "department")))
	m.duration.Record(ctx, d.Seconds())
}
