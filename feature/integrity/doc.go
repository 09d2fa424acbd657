// Package integrity checks that the infrastructure a sync depends on is in
// place.
//
// It does not look at seminar data. Reconciliation of that data is the
// seminar feature's job.
//
// # Checks Provided
//
//   - Database: the connection answers a ping.
//   - Tables: the seminars table and the run log table carry every column
//     the store reads and writes.
//   - Storage: the archive bucket exists. Skipped when archiving is off.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks. Responds 503 when any check fails.
package integrity
