package rbslot

import (
	"encoding/json"
	"strings"
)

// Status is the single closed status vocabulary used past the client
// boundary for both transactions and deposits.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// NormalizeStatus folds wire statuses (any casing) into Status. Unknown
// values are treated as pending, matching how the dashboard has always
// badged them.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "completed", "complete", "approved":
		return StatusCompleted
	case "failed", "failure", "rejected":
		return StatusFailed
	default:
		return StatusPending
	}
}

func (s Status) Pending() bool { return s == StatusPending }

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

// TransactionDecision is the wire status sent when resolving a transaction.
type TransactionDecision string

const (
	TransactionCompleted TransactionDecision = "completed"
	TransactionFailed    TransactionDecision = "failed"
)

// DepositDecision is the wire status sent when resolving a deposit.
type DepositDecision string

const (
	DepositSuccess DepositDecision = "SUCCESS"
	DepositFailed  DepositDecision = "FAILED"
)
