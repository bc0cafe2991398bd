package metadata

import "fmt"

// MovementReason tags a ledger row with the event that produced it.
type MovementReason string

const (
	ReasonPurchase         MovementReason = "purchase"
	ReasonIssue            MovementReason = "issue"
	ReasonReturn           MovementReason = "return"
	ReasonAdjustment       MovementReason = "adjustment"
	ReasonDeletionReversal MovementReason = "deletion_reversal"
)

func NewMovementReason(value string) (MovementReason, error) {
	reason := MovementReason(value)
	if !reason.isValid() {
		return "", fmt.Errorf("invalid movement reason: %s", value)
	}
	return reason, nil
}

func (r MovementReason) isValid() bool {
	switch r {
	case ReasonPurchase, ReasonIssue, ReasonReturn, ReasonAdjustment, ReasonDeletionReversal:
		return true
	default:
		return false
	}
}

func (r MovementReason) String() string {
	return string(r)
}
