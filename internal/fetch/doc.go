// Package fetch implements the concurrent-installation half of the
// orchestrator: single-shot download and shallow-clone operations with
// failure capture, and a bounded worker pool that fans a task list out over
// them. A failed task never aborts or blocks its siblings; every task
// produces exactly one outcome.
package fetch
