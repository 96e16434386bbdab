// Package status defines the delivery lifecycle states and the rule for
// deriving a delivery-level status from its items.
package status

import "strings"

// Status is one of the closed set of delivery lifecycle states.
type Status string

const (
	Pending      Status = "PENDING"
	Development  Status = "DEVELOPMENT"
	Delivered    Status = "DELIVERED"
	Homologation Status = "HOMOLOGATION"
	Approved     Status = "APPROVED"
	Rejected     Status = "REJECTED"
	Production   Status = "PRODUCTION"
	Cancelled    Status = "CANCELLED"
)

// All lists every valid status.
var All = []Status{
	Pending,
	Development,
	Delivered,
	Homologation,
	Approved,
	Rejected,
	Production,
	Cancelled,
}

// valid is the membership set for Parse.
var valid = func() map[Status]bool {
	m := make(map[Status]bool, len(All))
	for _, s := range All {
		m[s] = true
	}
	return m
}()

// Parse maps textual input to a Status. Matching is case-insensitive and
// ignores surrounding whitespace; anything unrecognized becomes Pending.
func Parse(raw string) Status {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if valid[s] {
		return s
	}
	return Pending
}

// ladder is the aggregation priority, most advanced first. Rejected sits at
// the bottom so a single rejected item does not mask advanced siblings.
var ladder = []Status{Production, Approved, Delivered, Homologation, Development, Rejected}

// Aggregate derives a delivery's status from the statuses of its items.
// An empty list yields Pending. A single distinct value wins outright.
// Mixed values resolve top-down through the priority ladder; mixtures
// containing none of the ladder statuses (only Pending/Cancelled) yield
// Pending.
func Aggregate(items []Status) Status {
	if len(items) == 0 {
		return Pending
	}

	distinct := make(map[Status]bool, len(items))
	var first Status
	for i, s := range items {
		if i == 0 {
			first = s
		}
		distinct[s] = true
	}
	if len(distinct) == 1 {
		return first
	}

	for _, s := range ladder {
		if distinct[s] {
			return s
		}
	}
	return Pending
}
