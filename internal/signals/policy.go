// Package signals computes reimbursement signals: per-client notes about the
// remaining or exceeded reimbursement allowance with their insurance fund
// (mutualiteit) for the current calendar year.
//
// Each fund family has its own Policy that encapsulates the trigger condition
// and message for that fund's reimbursement rules. Policies are evaluated in
// a fixed order and the first match wins; the generic numeric-cap policy only
// applies when no named family matches.
package signals

import (
	"fmt"
	"strings"

	"praktijk/internal/core"
)

// Outcome is what a policy produces when its trigger condition fires.
// Remaining is nil for policies that do not surface a remaining count.
type Outcome struct {
	Message   string
	Remaining *int
}

// Policy is the rule for one fund family. Matches decides whether the policy
// governs a fund (case-insensitive name matching); Evaluate applies the
// trigger condition to the client's reimbursable session count and reports
// whether a signal should be emitted.
type Policy interface {
	Matches(fund core.Fund) bool
	Evaluate(fund core.Fund, client core.Client, sessions int) (Outcome, bool)
}

// ChristelijkPolicy covers CM (Christelijke Mutualiteit): a fixed 40 EUR
// benefit once the client reaches four reimbursable sessions.
type ChristelijkPolicy struct{}

func (ChristelijkPolicy) Matches(f core.Fund) bool {
	return nameContains(f, "christelijk") || nameEquals(f, "cm")
}

func (ChristelijkPolicy) Evaluate(_ core.Fund, _ core.Client, n int) (Outcome, bool) {
	if n < 4 {
		return Outcome{}, false
	}
	return Outcome{
		Message: fmt.Sprintf("Vaste 40 EUR tegemoetkoming bereikt (%d terugbetaalbare sessies dit jaar)", n),
	}, true
}

// LiberaalPolicy covers LM (Liberale Mutualiteit): a per-visit benefit for up
// to six sessions per year; the signal is informational and shows how many
// reimbursed visits remain.
type LiberaalPolicy struct{}

func (LiberaalPolicy) Matches(f core.Fund) bool {
	return nameContains(f, "liberaal") || nameEquals(f, "lm")
}

func (LiberaalPolicy) Evaluate(_ core.Fund, _ core.Client, n int) (Outcome, bool) {
	if n < 1 || n > 6 {
		return Outcome{}, false
	}
	remaining := 6 - n
	return Outcome{
		Message:   fmt.Sprintf("Tegemoetkoming per consultatie; nog %d van 6 terugbetaalbare sessies beschikbaar", remaining),
		Remaining: &remaining,
	}, true
}

// SolidarisPolicy covers Solidaris: four sessions per year, or eight when the
// client's exception flag is set. The message names the exception basis when
// the raised cap applies.
type SolidarisPolicy struct{}

func (SolidarisPolicy) Matches(f core.Fund) bool {
	return nameContains(f, "solidaris")
}

func (SolidarisPolicy) Evaluate(_ core.Fund, c core.Client, n int) (Outcome, bool) {
	max := 4
	if c.Exception {
		max = 8
	}
	if n < 1 || n > max {
		return Outcome{}, false
	}
	remaining := max - n
	msg := fmt.Sprintf("Tegemoetkoming per consultatie; nog %d van %d terugbetaalbare sessies beschikbaar", remaining, max)
	if c.Exception {
		msg = fmt.Sprintf("Tegemoetkoming per consultatie (verhoogd maximum wegens uitzondering); nog %d van %d terugbetaalbare sessies beschikbaar", remaining, max)
	}
	return Outcome{Message: msg, Remaining: &remaining}, true
}

// HelanPolicy covers Helan: a fixed annual benefit announced exactly once, on
// the session that crosses the count from zero to one. A client at two or
// more sessions never sees the message again; this one-time behavior is the
// contract, not a shortcut.
type HelanPolicy struct{}

func (HelanPolicy) Matches(f core.Fund) bool {
	return nameContains(f, "helan")
}

func (HelanPolicy) Evaluate(_ core.Fund, _ core.Client, n int) (Outcome, bool) {
	if n != 1 {
		return Outcome{}, false
	}
	return Outcome{
		Message: "Eenmalige jaarlijkse tegemoetkoming van toepassing vanaf de eerste terugbetaalbare sessie",
	}, true
}

// NeutraalPolicy covers the Vlaams & Neutraal Ziekenfonds family: a per-visit
// benefit for up to five sessions per year.
type NeutraalPolicy struct{}

func (NeutraalPolicy) Matches(f core.Fund) bool {
	return nameContains(f, "vlaams") || nameContains(f, "neutraal") || nameEquals(f, "vnz")
}

func (NeutraalPolicy) Evaluate(_ core.Fund, _ core.Client, n int) (Outcome, bool) {
	if n < 1 || n > 5 {
		return Outcome{}, false
	}
	remaining := 5 - n
	return Outcome{
		Message:   fmt.Sprintf("Tegemoetkoming per consultatie; nog %d van 5 terugbetaalbare sessies beschikbaar", remaining),
		Remaining: &remaining,
	}, true
}

// CapPolicy is the fallback for funds outside the named families that carry a
// generic numeric cap. It emits an over-limit note once the count reaches the
// cap; the cap itself is surfaced in the message instead of a remaining count.
type CapPolicy struct{}

func (CapPolicy) Matches(f core.Fund) bool {
	return f.MaxSessionsPerYear != nil
}

func (CapPolicy) Evaluate(f core.Fund, _ core.Client, n int) (Outcome, bool) {
	if f.MaxSessionsPerYear == nil || int64(n) < *f.MaxSessionsPerYear {
		return Outcome{}, false
	}
	return Outcome{
		Message: fmt.Sprintf("Maximum aantal terugbetaalbare sessies bereikt (%d per jaar)", *f.MaxSessionsPerYear),
	}, true
}

// defaultPolicies is the ordered rule table. Order is part of the contract:
// named fund families are tried first and the first match wins, so the
// generic cap fallback never shadows a named policy.
var defaultPolicies = []Policy{
	ChristelijkPolicy{},
	LiberaalPolicy{},
	SolidarisPolicy{},
	HelanPolicy{},
	NeutraalPolicy{},
	CapPolicy{},
}

// Register adds a custom policy ahead of the generic cap fallback, so new
// fund families are additions rather than code edits to the engine.
func Register(p Policy) {
	last := len(defaultPolicies) - 1
	defaultPolicies = append(defaultPolicies[:last], p, defaultPolicies[last])
}

// policyFor returns the first policy governing the fund, if any.
func policyFor(f core.Fund) (Policy, bool) {
	for _, p := range defaultPolicies {
		if p.Matches(f) {
			return p, true
		}
	}
	return nil, false
}

func nameContains(f core.Fund, sub string) bool {
	return strings.Contains(strings.ToLower(f.Name), sub)
}

func nameEquals(f core.Fund, name string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Name), name)
}
