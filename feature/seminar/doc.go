// Package seminar stores scraped seminar slots and runs reconciliations
// against them.
//
// The Store maps reconcile.Store onto a GORM table keyed by
// (event_date, event_time). The Service wires the store, the run log and an
// extractor into reconcile.Engine, and the Handler exposes it over Fiber:
//
//	GET  /seminars              list stored rows
//	GET  /seminars/calendar.ics iCalendar feed of live rows
//	POST /sync                  run one reconciliation
//	GET  /sync/plan             preview without writing
//	GET  /sync/runs             recent run log rows
package seminar
