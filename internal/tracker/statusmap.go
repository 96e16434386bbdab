package tracker

import (
	"strings"

	"github.com/squadworks/backoffice/internal/status"
)

// forwardLabels maps the syncable subset of internal statuses to the
// tracker's workflow labels. Statuses outside this map are never pushed.
var forwardLabels = map[status.Status]string{
	status.Development: "em progresso",
	status.Delivered:   "entregue",
	status.Production:  "em produção",
}

// SyncableStatuses lists the internal statuses eligible for outbound push,
// in lifecycle order.
func SyncableStatuses() []status.Status {
	return []status.Status{status.Development, status.Delivered, status.Production}
}

// Label returns the tracker label for an internal status, with ok=false for
// non-syncable statuses.
func Label(s status.Status) (string, bool) {
	label, ok := forwardLabels[s]
	return label, ok
}

// labelRanks orders every label the tracker is known to emit across its
// workflow. Ranks increase with workflow progress; "complete" and
// "em produção" are both terminal and share the maximal rank. Keys are
// pre-normalized (lower-case, trimmed).
var labelRanks = map[string]int{
	"backlog":        1,
	"em progresso":   2,
	"em revisão":     3,
	"entregue":       4,
	"em homologação": 5,
	"aprovado":       6,
	"em produção":    7,
	"complete":       7,
}

// Rank returns the workflow rank of a tracker label. Unrecognized labels
// rank zero, below every known label.
func Rank(label string) int {
	return labelRanks[strings.ToLower(strings.TrimSpace(label))]
}

// CanAdvanceTo reports whether moving the tracker from its current label to
// the candidate label is forward progress. Equal-rank and backward moves
// are rejected so tracker-side progress is never overwritten.
func CanAdvanceTo(current, candidate string) bool {
	return Rank(candidate) > Rank(current)
}
