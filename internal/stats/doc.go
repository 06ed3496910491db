// Package stats computes the aggregate statistics reported over a canonical
// publication dataset.
//
// # Overview
//
// Every function in this package is a pure function of its inputs. Records
// are never modified, so callers may share a single cached dataset between
// concurrent report requests.
//
// The package provides:
//
//  1. Year-over-year change per overall total, faculty, department, title
//     and publication type
//  2. Shannon diversity of the Q1..Q4 quartile counts
//  3. Active-researcher ratio and high-impact researcher count
//  4. Top-N rankings with a deterministic tie-break
//  5. Inclusion and exclusion selectors over faculty, department and title
//  6. The summary, key takeaways and the full sectioned report
//
// # Usage
//
//	engine := stats.NewEngine(pipeline.Normalizer())
//	report := engine.Report(result.Records, stats.ReportOptions{
//	    TopN:            5,
//	    FacultyOrder:    result.FacultyOrder,
//	    DepartmentOrder: result.DepartmentOrder,
//	})
//
// # Division by zero
//
// Ratios and percentages with a zero denominator are reported as 0.
package stats
