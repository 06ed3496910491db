package http

import (
	"context"
	"io"

	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the dataset operations served over HTTP
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, previous, current services.Source) (*services.Analysis, error)
	Get(ctx context.Context, id string) (*services.Analysis, error)
	Records(ctx context.Context, id string, sel stats.Selector) ([]domain.CanonicalRecord, error)
	Removed(ctx context.Context, id string) ([]domain.RemovedRecord, error)
	Report(ctx context.Context, id string, req services.ReportRequest) (*stats.Report, error)
	Filters(ctx context.Context, id string) (stats.FilterOptions, error)
	WriteWorkbook(ctx context.Context, id string, w io.Writer) error
}

var _ AnalysisServiceInterface = (*services.AnalysisService)(nil)
