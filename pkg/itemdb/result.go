package itemdb

import "github.com/osrskit/equipment-requirements/pkg/store"

// Outcome classifies the result of a per-item lookup.
type Outcome string

const (
	// OutcomeFound means the upstream document carried a non-empty
	// requirements list.
	OutcomeFound Outcome = "found"

	// OutcomeNotFound means the item has no requirement data: the upstream
	// answered 404, or the document carried no requirements. Expected and
	// silent.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeFailed means the lookup failed (network error, unexpected
	// status, malformed body). Logged, never fatal; the item is treated as
	// having no data for this run.
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of fetching requirements for a single item.
type Result struct {
	ItemID       int
	Outcome      Outcome
	Requirements []store.Requirement
	Err          error
}

// Found builds a successful result carrying requirement records.
func Found(id int, reqs []store.Requirement) Result {
	return Result{ItemID: id, Outcome: OutcomeFound, Requirements: reqs}
}

// NotFound builds a no-data result.
func NotFound(id int) Result {
	return Result{ItemID: id, Outcome: OutcomeNotFound}
}

// Failed builds a failure result carrying the reason.
func Failed(id int, err error) Result {
	return Result{ItemID: id, Outcome: OutcomeFailed, Err: err}
}
