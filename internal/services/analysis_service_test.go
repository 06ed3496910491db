package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	apperrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/shared/testutil"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
)

const (
	engineering = "Mühendislik Fakültesi"
	artsScience = "Fen Edebiyat Fakültesi"
	computerEng = "Bilgisayar Mühendisliği Bölümü"
	philosophy  = "Felsefe Bölümü"
)

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()
	cfg := config.Default().Analysis
	cfg.CacheTTL = time.Hour
	_, logger := testutil.NewLogCapture(t)
	s := NewAnalysisService(cfg, logger)
	t.Cleanup(s.Close)
	return s
}

func sources(t *testing.T) (Source, Source) {
	t.Helper()
	headers := testutil.SourceHeaders(false)
	previous := testutil.WorkbookBytes(t, headers, [][]any{
		testutil.Row("Prof. Dr. Ayşe Yılmaz", engineering, computerEng, 0, 0, 2, 0, 0, 0, 0),
		testutil.Row("Doç. Dr. Mehmet Demir", artsScience, philosophy, 1, 0, 0, 0, 0, 0, 0),
	})
	current := testutil.WorkbookBytes(t, headers, [][]any{
		testutil.Row("Prof. Dr. Ayşe Yılmaz", engineering, computerEng, 0, 0, 3, 1, 0, 0, 0),
		testutil.Row("Doç. Dr. Mehmet Demir", artsScience, philosophy, 0, 0, 0, 0, -1, 0, 0),
		testutil.Row("Hukuk Hocası", "Hukuk Fakültesi", "", 0, 0, 0, 0, 0, 1, 0),
	})
	return Source{Name: "2023.xlsx", Data: previous}, Source{Name: "2024.xlsx", Data: current}
}

func errType(t *testing.T, err error) apperrors.ErrorType {
	t.Helper()
	require.Error(t, err)
	typ, ok := apperrors.TypeOf(err)
	require.True(t, ok, "expected an AppError, got %T: %v", err, err)
	return typ
}

func TestAnalyze(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)

	a, err := s.Analyze(context.Background(), prev, cur)
	require.NoError(t, err)

	overview := a.Overview()
	assert.Len(t, overview.ID, 32)
	assert.Equal(t, 4, overview.Records)
	assert.Equal(t, 1, overview.Removed)
	assert.True(t, overview.TitleInferred)
	assert.Equal(t, []string{"Hukuk Fakültesi"}, overview.Unmapped.Faculties)
	require.Len(t, overview.Sources, 2)
	assert.Equal(t, "2023.xlsx", overview.Sources[0].Name)
	assert.Equal(t, 3, overview.Sources[1].Rows)

	// 2023: 2 + 1, 2024: 4 + 1 after the negative row is dropped
	assert.Equal(t, 3, overview.Summary.PreviousPublications)
	assert.Equal(t, 5, overview.Summary.CurrentPublications)
	assert.Contains(t, a.Filters.Faculties, "Hukuk Fakültesi")
}

func TestAnalyzeServesIdenticalInputsFromCache(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)

	first, err := s.Analyze(context.Background(), prev, cur)
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), prev, cur)
	require.NoError(t, err)

	assert.Same(t, first, second)
	st := s.CacheStats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, int64(1), st.HitCount)
}

func TestAnalyzeConcurrentIdenticalInputs(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)

	const n = 8
	results := make([]*Analysis, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.Analyze(context.Background(), prev, cur)
			assert.NoError(t, err)
			results[i] = a
		}()
	}
	wg.Wait()

	for _, a := range results {
		require.NotNil(t, a)
		assert.Equal(t, results[0].ID, a.ID)
	}
	assert.Equal(t, 1, s.CacheStats().Entries)
}

func TestAnalyzeKeepsResultWhenCacheDisabledInConfig(t *testing.T) {
	tests := []struct {
		name string
		size int
		ttl  time.Duration
	}{
		{"zero size", 0, time.Hour},
		{"zero ttl", 4, 0},
		{"negative ttl", 4, -time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Analysis
			cfg.CacheSize = tt.size
			cfg.CacheTTL = tt.ttl
			_, logger := testutil.NewLogCapture(t)
			s := NewAnalysisService(cfg, logger)
			t.Cleanup(s.Close)

			prev, cur := sources(t)
			a, err := s.Analyze(context.Background(), prev, cur)
			require.NoError(t, err)

			got, err := s.Get(context.Background(), a.ID)
			require.NoError(t, err)
			assert.Same(t, a, got)

			bundle, err := s.Bundle(context.Background(), a.ID, ReportRequest{})
			require.NoError(t, err)
			assert.Len(t, bundle.Result.Records, 4)
		})
	}
}

func TestAnalyzeSharedRunSurvivesCallerCancel(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	s.now = func() time.Time {
		once.Do(func() {
			close(entered)
			<-release
		})
		return time.Now()
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Analyze(ctx, prev, cur)
		firstErr <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis never started")
	}
	cancel()

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller kept waiting for the shared run")
	}

	secondDone := make(chan *Analysis, 1)
	go func() {
		a, err := s.Analyze(context.Background(), prev, cur)
		assert.NoError(t, err)
		secondDone <- a
	}()
	close(release)

	select {
	case a := <-secondDone:
		require.NotNil(t, a)
		cached, err := s.Get(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Same(t, a, cached)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller did not get the analysis")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)

	bad := testutil.WorkbookBytes(t, testutil.SourceHeaders(false), [][]any{
		testutil.Row("A", engineering, computerEng, "abc"),
	})

	tests := []struct {
		name     string
		previous Source
		current  Source
		want     apperrors.ErrorType
		cause    error
	}{
		{"missing input", Source{}, cur, apperrors.ErrTypeValidation, ErrMissingInput},
		{"empty input", prev, Source{Name: "2024.xlsx"}, apperrors.ErrTypeValidation, ErrEmptyInput},
		{"unsupported format", Source{Name: "2023.pdf", Data: []byte("%PDF")}, cur, apperrors.ErrTypeIngestion, nil},
		{"non-numeric count", prev, Source{Name: "2024.xlsx", Data: bad}, apperrors.ErrTypeTypeConversion, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Analyze(context.Background(), tt.previous, tt.current)
			assert.Equal(t, tt.want, errType(t, err))
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
	assert.Equal(t, 0, s.CacheStats().Entries)
}

func TestAnalyzeFiles(t *testing.T) {
	s := newTestService(t)
	dir := t.TempDir()
	headers := testutil.SourceHeaders(true)
	prevPath := testutil.WriteWorkbook(t, dir, "2023.xlsx", headers, [][]any{
		{"Prof. Dr.", "A", engineering, computerEng, 1, 0, 0, 0, 0, 0, 0},
	})
	curPath := testutil.WriteWorkbook(t, dir, "2024.xlsx", headers, [][]any{
		{"Prof. Dr.", "A", engineering, computerEng, 0, 2, 0, 0, 0, 0, 0},
	})

	a, err := s.AnalyzeFiles(context.Background(), prevPath, curPath)
	require.NoError(t, err)
	assert.False(t, a.Result.TitleInferred)
	assert.Equal(t, 1, a.Summary.PreviousPublications)
	assert.Equal(t, 2, a.Summary.CurrentPublications)

	_, err = s.AnalyzeFiles(context.Background(), filepath.Join(dir, "missing.xlsx"), curPath)
	assert.Equal(t, apperrors.ErrTypeIngestion, errType(t, err))
}

func TestDatasetQueries(t *testing.T) {
	s := newTestService(t)
	prev, cur := sources(t)
	a, err := s.Analyze(context.Background(), prev, cur)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		assert.Equal(t, apperrors.ErrTypeNotFound, errType(t, err))
		assert.True(t, errors.Is(err, ErrDatasetNotFound))

		_, err = s.Report(ctx, "nope", ReportRequest{})
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})

	t.Run("records with selector", func(t *testing.T) {
		records, err := s.Records(ctx, a.ID, stats.Selector{IncludeFaculties: []string{engineering}})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("removed", func(t *testing.T) {
		removed, err := s.Removed(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.Equal(t, "Q3 Articles", removed[0].Column)
		assert.Equal(t, -1, removed[0].Value)
	})

	t.Run("report top n", func(t *testing.T) {
		r, err := s.Report(ctx, a.ID, ReportRequest{})
		require.NoError(t, err)
		assert.Equal(t, config.DefaultTopN, r.TopN)

		r, err = s.Report(ctx, a.ID, ReportRequest{TopN: 1000})
		require.NoError(t, err)
		assert.Equal(t, config.MaxTopN, r.TopN)

		r, err = s.Report(ctx, a.ID, ReportRequest{TopN: 1})
		require.NoError(t, err)
		assert.Len(t, r.TopResearchers, 1)
	})

	t.Run("filters", func(t *testing.T) {
		f, err := s.Filters(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Diğer", "Doç. Dr.", "Prof. Dr."}, f.Titles)
		assert.Contains(t, f.Departments, "Bilinmeyen")
	})

	t.Run("workbook", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.WriteWorkbook(ctx, a.ID, &buf))

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		assert.Len(t, f.GetSheetList(), 4)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Get(cctx, a.ID)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFingerprint(t *testing.T) {
	a := Source{Name: "a.xlsx", Data: []byte("one")}
	b := Source{Name: "b.xlsx", Data: []byte("two")}

	id1, err := Fingerprint(a, b)
	require.NoError(t, err)
	id2, err := Fingerprint(Source{Name: "renamed.XLSX", Data: a.Data}, b)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	swapped, err := Fingerprint(b, a)
	require.NoError(t, err)
	assert.NotEqual(t, id1, swapped)

	asCSV, err := Fingerprint(Source{Name: "a.csv", Data: a.Data}, b)
	require.NoError(t, err)
	assert.NotEqual(t, id1, asCSV)

	// length prefixes keep shifted boundaries apart
	shifted, err := Fingerprint(Source{Name: "a.xlsx", Data: []byte("onet")}, Source{Name: "b.xlsx", Data: []byte("wo")})
	require.NoError(t, err)
	assert.NotEqual(t, id1, shifted)
}
