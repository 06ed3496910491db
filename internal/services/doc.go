// Package services implements the application's business operations.
//
// AnalysisService reads the two yearly inputs concurrently, runs the
// publication pipeline and keeps each immutable result in a TTL cache keyed by
// a BLAKE2b fingerprint of the inputs. Uploading the same pair of files twice
// returns the same dataset id without reprocessing. Reports, record listings,
// filter options and workbook exports are computed from the cached result on
// demand.
package services
