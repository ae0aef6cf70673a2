package decisions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Decision is one approve/reject issued from a console, kept as a local
// audit trail next to whatever the API records.
type Decision struct {
	ID          string         `gorm:"primaryKey;type:char(36)"`
	ConsoleID   string         `gorm:"type:char(36);not null;index:ix_admin_decisions_console"`
	ActorUserID string         `gorm:"type:varchar(64);not null"`
	Resource    string         `gorm:"type:varchar(16);not null"` // transaction|deposit
	OrderID     string         `gorm:"type:varchar(128);not null;index:ix_admin_decisions_order"`
	Action      string         `gorm:"type:varchar(16);not null"`
	WireStatus  string         `gorm:"type:varchar(16);not null"`
	Note        *string        `gorm:"type:varchar(255)"`
	Outcome     Outcome        `gorm:"type:varchar(16);not null"`
	Error       *string        `gorm:"type:varchar(512)"`
	Response    datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"type:datetime(3);not null;index:ix_admin_decisions_created"`
}

func (Decision) TableName() string { return "admin_decisions" }

type RecordInput struct {
	ConsoleID   string
	ActorUserID string
	Resource    string
	OrderID     string
	Action      string
	WireStatus  string
	Note        string
	Err         error
	Response    any
}

// NewDecision builds the row for in. A response that cannot be encoded is
// stored as null rather than failing the audit write.
func NewDecision(in RecordInput, now time.Time) (Decision, error) {
	if in.Resource == "" || in.OrderID == "" || in.Action == "" {
		return Decision{}, ErrInvalidRecord
	}

	d := Decision{
		ID:          uuid.NewString(),
		ConsoleID:   in.ConsoleID,
		ActorUserID: in.ActorUserID,
		Resource:    in.Resource,
		OrderID:     in.OrderID,
		Action:      in.Action,
		WireStatus:  in.WireStatus,
		Outcome:     OutcomeSucceeded,
		CreatedAt:   now,
	}
	if in.Note != "" {
		n := in.Note
		d.Note = &n
	}
	if in.Err != nil {
		msg := in.Err.Error()
		if len(msg) > 512 {
			msg = msg[:512]
		}
		d.Outcome = OutcomeFailed
		d.Error = &msg
	} else if in.Response != nil {
		if b, err := json.Marshal(in.Response); err == nil {
			d.Response = datatypes.JSON(b)
		}
	}
	return d, nil
}

func (d Decision) NoteText() string {
	if d.Note == nil {
		return ""
	}
	return *d.Note
}

func (d Decision) ErrorText() string {
	if d.Error == nil {
		return ""
	}
	return *d.Error
}
