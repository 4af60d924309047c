package outcome

import (
	"fmt"
	"strings"
)

// RefundStatus is the closed set of states a refund query can report.
type RefundStatus string

const (
	RefundSuccess    RefundStatus = "SUCCESS"
	RefundFail       RefundStatus = "FAIL"
	RefundProcessing RefundStatus = "PROCESSING"
	RefundNotSure    RefundStatus = "NOTSURE"
	RefundChange     RefundStatus = "CHANGE"
)

var refundExplanations = map[RefundStatus]string{
	RefundSuccess:    "refund completed",
	RefundFail:       "refund failed",
	RefundProcessing: "refund is being processed",
	RefundNotSure:    "refund state undetermined; re-issue the query with the original refund number",
	RefundChange:     "refund rerouted: the original card was voided or frozen, funds returned to the merchant cash account and manual intervention is required",
}

// ParseRefundStatus maps a raw backend value onto the closed set.
func ParseRefundStatus(raw string) (RefundStatus, error) {
	s := RefundStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := refundExplanations[s]; !ok {
		return "", fmt.Errorf("outcome: unknown refund status %q", raw)
	}
	return s, nil
}

// Explanation returns the fixed human-readable description of the status.
// Unknown values explain to an empty string.
func (r RefundStatus) Explanation() string {
	return refundExplanations[r]
}

// RefundQuery is the result of a refund-status lookup. Found is false when
// the backend accepted the query but has no matching refund record; that
// is distinct from a server rejection, which surfaces as a Failure.
type RefundQuery struct {
	Found  bool
	Status RefundStatus
}

// Explanation returns the fixed message for the found status, or the
// no-record message.
func (q RefundQuery) Explanation() string {
	if !q.Found {
		return "no matching refund record"
	}
	return q.Status.Explanation()
}
