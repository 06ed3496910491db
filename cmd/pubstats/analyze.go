package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	"github.com/KeremDpdo/research-publication-dashboard/internal/exporter"
	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
)

type analyzeOptions struct {
	previous string
	current  string
	outDir   string
	format   string
	topN     int
	selector stats.Selector
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Normalize both years, print the summary and optionally export the results",
		Example: `  pubstats analyze --prev 2023.xlsx --curr 2024.xlsx
  pubstats analyze --prev 2023.csv --curr 2024.csv --out out --format xlsx --include-faculty "Mühendislik Fakültesi"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, c, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.previous, "prev", "", "2023 input file, .xlsx or .csv (required)")
	f.StringVar(&opts.current, "curr", "", "2024 input file, .xlsx or .csv (required)")
	f.StringVar(&opts.outDir, "out", "", "directory to export into; nothing is written when empty")
	f.StringVar(&opts.format, "format", string(exporter.FormatCSV), "export format: csv, xlsx or json")
	f.IntVar(&opts.topN, "top", 0, fmt.Sprintf("ranking size of the report, at most %d (default %d)", config.MaxTopN, config.DefaultTopN))
	f.StringSliceVar(&opts.selector.IncludeFaculties, "include-faculty", nil, "keep only these faculties")
	f.StringSliceVar(&opts.selector.IncludeDepartments, "include-department", nil, "keep only these departments")
	f.StringSliceVar(&opts.selector.IncludeTitles, "include-title", nil, "keep only these titles")
	f.StringSliceVar(&opts.selector.ExcludeFaculties, "exclude-faculty", nil, "drop these faculties")
	f.StringSliceVar(&opts.selector.ExcludeDepartments, "exclude-department", nil, "drop these departments")
	f.StringSliceVar(&opts.selector.ExcludeTitles, "exclude-title", nil, "drop these titles")

	_ = cmd.MarkFlagRequired("prev")
	_ = cmd.MarkFlagRequired("curr")
	return cmd
}

func runAnalyze(cmd *cobra.Command, c *cli, opts analyzeOptions) error {
	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.topN < 0 || opts.topN > config.MaxTopN {
		return fmt.Errorf("--top must be between 0 and %d", config.MaxTopN)
	}

	svc := services.NewAnalysisService(c.cfg.Analysis, c.logger)
	defer svc.Close()

	ctx := cmd.Context()
	analysis, err := svc.AnalyzeFiles(ctx, opts.previous, opts.current)
	if err != nil {
		return err
	}

	bundle, err := svc.Bundle(ctx, analysis.ID, services.ReportRequest{Selector: opts.selector, TopN: opts.topN})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printAnalysis(out, analysis, bundle.Report); err != nil {
		return err
	}

	if opts.outDir == "" {
		return nil
	}
	paths, err := exporter.New(opts.outDir, c.cfg.Analysis.CSVBOM, c.logger).Export(format, bundle)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	for _, p := range paths {
		fmt.Fprintf(out, "yazıldı: %s\n", p)
	}
	return nil
}

// printAnalysis writes the dataset overview and the summary of the selected
// records as an aligned table
func printAnalysis(w io.Writer, a *services.Analysis, r *stats.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	s := r.Summary

	fmt.Fprintf(tw, "Veri Kümesi\t%s\n", a.ID)
	for _, src := range a.Sources {
		fmt.Fprintf(tw, "%s\t%s (%d satır)\n", src.Year, src.Name, src.Rows)
	}
	fmt.Fprintf(tw, "Kayıt\t%d\n", len(a.Result.Records))
	fmt.Fprintf(tw, "Hatalı Kayıt\t%d\n", len(a.Result.Removed))
	if a.Result.TitleInferred {
		fmt.Fprintf(tw, "Ünvan\tisimden çıkarıldı\n")
	}
	if !a.Result.Unmapped.Empty() {
		fmt.Fprintf(tw, "Eşlenmeyen Fakülte\t%s\n", strings.Join(a.Result.Unmapped.Faculties, ", "))
		fmt.Fprintf(tw, "Eşlenmeyen Bölüm\t%s\n", strings.Join(a.Result.Unmapped.Departments, ", "))
	}
	if !r.Selector.Empty() {
		fmt.Fprintf(tw, "Seçilen Kayıt\t%d\n", s.Records)
	}
	fmt.Fprintln(tw, "\t")

	fmt.Fprintf(tw, "Toplam Yayın\t%d\n", s.TotalPublications)
	fmt.Fprintf(tw, "2023 Yayınları\t%d\n", s.PreviousPublications)
	fmt.Fprintf(tw, "2024 Yayınları\t%d\n", s.CurrentPublications)
	fmt.Fprintf(tw, "Yayın Değişimi (%%)\t%.1f\n", s.PercentChange)
	fmt.Fprintf(tw, "Aktif Araştırmacı\t%d\n", s.ActiveResearchers)
	fmt.Fprintf(tw, "Yüksek Etkili Araştırmacı\t%d\n", s.HighImpactResearchers)
	fmt.Fprintf(tw, "Ortalama Etki Puanı\t%.2f\n", s.MeanImpactScore)
	fmt.Fprintf(tw, "Ortalama Çeşitlilik\t%.3f\n", s.MeanDiversity)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Takeaways) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Önemli Bulgular")
		for _, tk := range r.Takeaways {
			fmt.Fprintf(w, "  - %s\n", tk.Message)
		}
	}

	if len(r.TopResearchers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "En Çok Yayın Yapan %d Araştırmacı\n", len(r.TopResearchers))
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i, rt := range r.TopResearchers {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%d\n", i+1, rt.Name, rt.Faculty, rt.TotalPublications)
		}
		return tw.Flush()
	}
	return nil
}
