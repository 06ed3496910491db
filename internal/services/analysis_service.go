package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	apperrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/exporter"
	"github.com/KeremDpdo/research-publication-dashboard/internal/ingest"
	"github.com/KeremDpdo/research-publication-dashboard/internal/pipeline"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Source is one uploaded or local input file
type Source struct {
	Name string
	Data []byte
}

// SourceInfo describes an input after it was read
type SourceInfo struct {
	Year    domain.Year `json:"year"`
	Name    string      `json:"name"`
	Sheet   string      `json:"sheet,omitempty"`
	Rows    int         `json:"rows"`
	Columns int         `json:"columns"`
	Bytes   int         `json:"bytes"`
}

// Analysis is an immutable processed dataset
type Analysis struct {
	ID        string
	CreatedAt time.Time
	Sources   []SourceInfo
	Result    *pipeline.Result
	Summary   stats.Summary
	Takeaways []stats.Takeaway
	Filters   stats.FilterOptions
}

// AnalysisOverview is the response body describing a dataset
type AnalysisOverview struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	Sources       []SourceInfo          `json:"sources"`
	Records       int                   `json:"records"`
	Removed       int                   `json:"removed"`
	SkippedRows   int                   `json:"skipped_rows"`
	TitleInferred bool                  `json:"title_inferred"`
	Unmapped      domain.UnmappedValues `json:"unmapped"`
	Summary       stats.Summary         `json:"summary"`
	Takeaways     []stats.Takeaway      `json:"takeaways"`
}

// Overview summarizes the analysis
func (a *Analysis) Overview() AnalysisOverview {
	return AnalysisOverview{
		ID:            a.ID,
		CreatedAt:     a.CreatedAt,
		Sources:       a.Sources,
		Records:       len(a.Result.Records),
		Removed:       len(a.Result.Removed),
		SkippedRows:   a.Result.SkippedRows,
		TitleInferred: a.Result.TitleInferred,
		Unmapped:      a.Result.Unmapped,
		Summary:       a.Summary,
		Takeaways:     a.Takeaways,
	}
}

// ReportRequest selects the records and ranking size of a report
type ReportRequest struct {
	Selector stats.Selector
	TopN     int
}

// AnalysisService runs the pipeline over uploaded inputs and serves reports
// from the cached results
type AnalysisService struct {
	reader   *ingest.Reader
	pipeline *pipeline.Pipeline
	engine   *stats.Engine
	cache    *ResultCache
	group    singleflight.Group
	topN     int
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalysisService creates the service
func NewAnalysisService(cfg config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	p := pipeline.New(logger)
	topN := cfg.TopN
	if topN <= 0 {
		topN = config.DefaultTopN
	}
	// every query after Analyze is answered from the cache, so it must hold
	// at least one entry for a positive time
	if cfg.CacheSize < 1 {
		cfg.CacheSize = config.DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = config.DefaultCacheTTL
	}
	return &AnalysisService{
		reader:   ingest.NewReader(logger, cfg.MaxUploadBytes),
		pipeline: p,
		engine:   stats.NewEngine(p.Normalizer()),
		cache:    NewResultCache(cfg.CacheTTL, cfg.CacheSize),
		topN:     topN,
		logger:   logger.With(slog.String("service", "analysis")),
		now:      time.Now,
	}
}

// Close releases background resources
func (s *AnalysisService) Close() {
	s.cache.Stop()
}

// CacheStats reports result cache usage
func (s *AnalysisService) CacheStats() CacheStats {
	return s.cache.Stats()
}

// AnalyzeFiles reads both files from disk and analyzes them
func (s *AnalysisService) AnalyzeFiles(ctx context.Context, previousPath, currentPath string) (*Analysis, error) {
	paths := [2]string{previousPath, currentPath}
	var sources [2]Source

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return apperrors.NewIngestionError("failed to read input file", err).
					WithContext("file", path)
			}
			sources[i] = Source{Name: filepath.Base(path), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.Analyze(ctx, sources[0], sources[1])
}

// Analyze runs the pipeline over the two inputs. Identical inputs resolve to
// the same dataset id and are served from the cache.
func (s *AnalysisService) Analyze(ctx context.Context, previous, current Source) (*Analysis, error) {
	if previous.Name == "" || current.Name == "" {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, ErrMissingInput.Error(), ErrMissingInput)
	}
	for _, src := range []Source{previous, current} {
		if len(src.Data) == 0 {
			return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, ErrEmptyInput.Error(), ErrEmptyInput).
				WithContext("file", src.Name)
		}
	}

	id, err := Fingerprint(previous, current)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint inputs: %w", err)
	}
	if a, ok := s.cache.Get(id); ok {
		s.logger.InfoContext(ctx, "analysis served from cache", slog.String("dataset_id", id))
		return a, nil
	}

	// the shared run outlives any single caller; each caller still honors
	// its own cancellation
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id, func() (interface{}, error) {
		return s.run(runCtx, id, previous, current)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "analysis shared with concurrent request", slog.String("dataset_id", id))
		}
		return res.Val.(*Analysis), nil
	}
}

func (s *AnalysisService) run(ctx context.Context, id string, previous, current Source) (*Analysis, error) {
	start := time.Now()
	inputs := []Source{previous, current}
	tables := make([]*ingest.Table, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := s.reader.Read(bytes.NewReader(src.Data), src.Name)
			if err != nil {
				return apperrors.NewIngestionError("failed to read input file", err).
					WithContext("file", src.Name).
					WithContext("year", string(domain.Years[i]))
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.pipeline.Run(ctx, tables[0], tables[1])
	if err != nil {
		return nil, err
	}

	summary, takeaways := s.engine.Summary(result.Records, result.FacultyOrder)
	a := &Analysis{
		ID:        id,
		CreatedAt: s.now().UTC(),
		Result:    result,
		Summary:   summary,
		Takeaways: takeaways,
		Filters:   s.engine.FilterOptions(result.Records),
	}
	for i, t := range tables {
		a.Sources = append(a.Sources, SourceInfo{
			Year:    domain.Years[i],
			Name:    inputs[i].Name,
			Sheet:   t.Sheet,
			Rows:    len(t.Rows),
			Columns: len(t.Headers),
			Bytes:   len(inputs[i].Data),
		})
	}
	s.cache.Set(id, a)

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("dataset_id", id),
		slog.Int("records", len(result.Records)),
		slog.Int("removed", len(result.Removed)),
		slog.Duration("duration", time.Since(start)))
	return a, nil
}

// Get returns a cached analysis
func (s *AnalysisService) Get(ctx context.Context, id string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, ok := s.cache.Get(id)
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound, ErrDatasetNotFound.Error(), ErrDatasetNotFound).
			WithContext("dataset_id", id)
	}
	return a, nil
}

// Records returns the canonical records kept by sel
func (s *AnalysisService) Records(ctx context.Context, id string, sel stats.Selector) ([]domain.CanonicalRecord, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Select(a.Result.Records, sel), nil
}

// Removed returns the audit list of dropped rows
func (s *AnalysisService) Removed(ctx context.Context, id string) ([]domain.RemovedRecord, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RemovedRecord, len(a.Result.Removed))
	copy(out, a.Result.Removed)
	return out, nil
}

// Report builds the sectioned report. TopN is clamped to the configured
// maximum; zero uses the service default.
func (s *AnalysisService) Report(ctx context.Context, id string, req ReportRequest) (*stats.Report, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.report(a, req), nil
}

func (s *AnalysisService) report(a *Analysis, req ReportRequest) *stats.Report {
	topN := req.TopN
	switch {
	case topN <= 0:
		topN = s.topN
	case topN > config.MaxTopN:
		topN = config.MaxTopN
	}
	return s.engine.Report(a.Result.Records, stats.ReportOptions{
		Selector:        req.Selector,
		TopN:            topN,
		FacultyOrder:    a.Result.FacultyOrder,
		DepartmentOrder: a.Result.DepartmentOrder,
	})
}

// Filters returns the selectable faculty, department and title values
func (s *AnalysisService) Filters(ctx context.Context, id string) (stats.FilterOptions, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return stats.FilterOptions{}, err
	}
	return a.Filters, nil
}

// Bundle collects everything the exporter writes for a dataset
func (s *AnalysisService) Bundle(ctx context.Context, id string, req ReportRequest) (exporter.Bundle, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return exporter.Bundle{}, err
	}
	return exporter.Bundle{
		Result:    a.Result,
		Summary:   a.Summary,
		Takeaways: a.Takeaways,
		Report:    s.report(a, req),
	}, nil
}

// WriteWorkbook writes the dataset, removed rows, unmapped values and
// summary as an xlsx workbook
func (s *AnalysisService) WriteWorkbook(ctx context.Context, id string, w io.Writer) error {
	b, err := s.Bundle(ctx, id, ReportRequest{})
	if err != nil {
		return err
	}
	if err := exporter.WriteWorkbook(w, b.Tables()); err != nil {
		return apperrors.NewExportError("failed to write workbook", err).WithContext("dataset_id", id)
	}
	return nil
}

// Fingerprint derives the dataset id from both inputs. The file extension
// takes part because it selects the parser.
func Fingerprint(previous, current Source) (string, error) {
	h, err := blake2b.New(16, nil)
	if err != nil {
		return "", err
	}
	for _, src := range []Source{previous, current} {
		fmt.Fprintf(h, "%s:%d:", strings.ToLower(filepath.Ext(src.Name)), len(src.Data))
		h.Write(src.Data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
