// Package http implements the HTTP handlers of the publication analysis API.
//
// Handlers stay thin: they parse and validate the request, call the analysis
// service and render the result. Every failure goes through the shared
// errors.ErrorHandler and is answered as an RFC 7807 problem.
//
// # Routes
//
//	POST /api/analyses                     upload file_2023 and file_2024
//	GET  /api/analyses/{id}                dataset overview
//	GET  /api/analyses/{id}/records        canonical records (selectors)
//	GET  /api/analyses/{id}/removed        rows dropped for negative counts
//	GET  /api/analyses/{id}/report         sectioned report (selectors, top_n)
//	GET  /api/analyses/{id}/filters        selectable faculties, departments, titles
//	GET  /api/analyses/{id}/export.xlsx    workbook download
//	GET  /api/health                       liveness and cache usage
//
// # Selectors
//
// faculty, department and title keep only matching records; the exclude_
// variants drop them. Each may repeat or hold a comma separated list, and
// values match case-insensitively under Turkish rules.
//
//	GET /api/analyses/{id}/report?faculty=Mühendislik%20Fakültesi&exclude_title=Diğer&top_n=10
//
// Successful responses are wrapped as {"status": "success", "data": ...}.
package http
