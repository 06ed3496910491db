// Package exporter writes analysis results as CSV files, a multi-sheet XLSX
// workbook or a JSON report.
//
// The canonical dataset, removed rows, unmapped values and summary are first
// flattened into Tables; the CSV and XLSX writers render the same tables so
// both formats always agree.
//
// Example usage:
//
//	exp := exporter.New("out", true, logger)
//	paths, err := exp.Export(exporter.FormatCSV, exporter.Bundle{
//	    Result:    result,
//	    Summary:   summary,
//	    Takeaways: takeaways,
//	})
package exporter
