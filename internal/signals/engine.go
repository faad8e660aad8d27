package signals

import (
	"errors"
	"fmt"
	"sort"

	"praktijk/internal/core"
)

// Signal is a derived, non-persisted notification for the practitioner that a
// client has reached or is approaching a reimbursement threshold with their
// insurance fund. It is recomputed on every evaluation and has no lifecycle.
type Signal struct {
	ClientID     int64  `json:"client_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FundName     string `json:"fund_name"`
	SessionCount int    `json:"session_count"`
	Message      string `json:"message"`
	Remaining    *int   `json:"remaining,omitempty"`
}

// ErrNegativeSessionCount is returned when a caller hands the engine a
// negative session count. That is a contract violation on the caller's side,
// never a state this engine coerces into a signal.
var ErrNegativeSessionCount = errors.New("negative session count")

// Evaluate maps each (client, fund, session count) triple to zero or one
// signal, applying the fund-family policy table. It is pure and
// deterministic: no I/O, no shared state, and identical inputs yield
// identical output. Clients without a fund, clients whose fund id is missing
// from funds, and clients whose policy trigger does not fire are skipped.
//
// counts holds per-client tallies of reimbursable appointments in the current
// calendar year; a missing entry counts as zero.
func Evaluate(clients []core.Client, funds map[int64]core.Fund, counts map[int64]int) ([]Signal, error) {
	for id, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("client %d: %w (%d)", id, ErrNegativeSessionCount, n)
		}
	}

	// Stable output order, by client id. Ordering is not semantically
	// significant but keeps responses and tests reproducible.
	ordered := make([]core.Client, len(clients))
	copy(ordered, clients)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var out []Signal
	for _, c := range ordered {
		if c.FundID == nil {
			continue
		}
		fund, ok := funds[*c.FundID]
		if !ok {
			// Dangling fund reference: treated as unassigned.
			continue
		}
		policy, ok := policyFor(fund)
		if !ok {
			// No policy configured for this fund; a valid state, not an error.
			continue
		}
		outcome, fired := policy.Evaluate(fund, c, counts[c.ID])
		if !fired {
			continue
		}
		out = append(out, Signal{
			ClientID:     c.ID,
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			FundName:     fund.Name,
			SessionCount: counts[c.ID],
			Message:      outcome.Message,
			Remaining:    outcome.Remaining,
		})
	}
	return out, nil
}

// DanglingFundRefs lists clients whose fund id is not present in funds.
// Callers use it to log data-integrity notes; the engine itself silently
// skips those clients.
func DanglingFundRefs(clients []core.Client, funds map[int64]core.Fund) []int64 {
	var ids []int64
	for _, c := range clients {
		if c.FundID == nil {
			continue
		}
		if _, ok := funds[*c.FundID]; !ok {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
