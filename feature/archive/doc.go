// Package archive keeps fetched schedule pages and run reports in object
// storage so a run can be inspected after the fact.
//
// Objects are laid out as <prefix>/runs/<YYYY-MM-DD>/<run id>/ with one
// page-<source>.html per fetch and a report.json per run. Prune drops whole
// date folders once they fall outside storage.retention_days.
package archive
