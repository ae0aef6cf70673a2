package decisions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestNewDecision(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	d, err := NewDecision(RecordInput{
		ConsoleID:   "c1",
		ActorUserID: "u1",
		Resource:    "deposit",
		OrderID:     "DP1",
		Action:      "approve",
		WireStatus:  "SUCCESS",
		Note:        "Payment verified by admin",
		Response:    map[string]any{"success": true},
	}, now)
	if err != nil {
		t.Fatalf("new decision: %v", err)
	}
	if d.ID == "" || d.Outcome != OutcomeSucceeded || d.NoteText() != "Payment verified by admin" {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if string(d.Response) != `{"success":true}` {
		t.Fatalf("unexpected response payload %s", d.Response)
	}

	failed, _ := NewDecision(RecordInput{Resource: "transaction", OrderID: "TX1", Action: "reject", Err: errors.New("already processed")}, now)
	if failed.Outcome != OutcomeFailed || failed.ErrorText() != "already processed" || failed.Response != nil {
		t.Fatalf("unexpected failed decision: %+v", failed)
	}

	if _, err := NewDecision(RecordInput{Resource: "deposit"}, now); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestMemoryLog(t *testing.T) {
	l := NewMemoryLog(3)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		if _, err := l.Record(ctx, RecordInput{Resource: "transaction", OrderID: fmt.Sprintf("TX%d", i), Action: "approve"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, _ := l.Recent(ctx, 10)
	if len(recent) != 3 {
		t.Fatalf("expected ring of 3, got %d", len(recent))
	}
	if recent[0].OrderID != "TX4" || recent[2].OrderID != "TX2" {
		t.Fatalf("expected newest first, got %s..%s", recent[0].OrderID, recent[2].OrderID)
	}

	forOrder, _ := l.ForOrder(ctx, "TX3")
	if len(forOrder) != 1 {
		t.Fatalf("expected one decision for TX3, got %d", len(forOrder))
	}
}

func TestClassifyDuplicate(t *testing.T) {
	err := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	if !errors.Is(classify(err), ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate")
	}
	other := errors.New("other")
	if classify(other) != other {
		t.Fatalf("unrelated errors pass through")
	}
}

func TestGormLog(t *testing.T) {
	dsn := os.Getenv("DB_TEST_DSN")
	if dsn == "" {
		t.Skip("DB_TEST_DSN not set")
	}
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skipf("mysql not reachable: %v", err)
	}
	if err := db.AutoMigrate(&Decision{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	l := NewGormLog(db)
	ctx := context.Background()
	d, err := l.Record(ctx, RecordInput{Resource: "deposit", OrderID: "DP-gorm-test", Action: "reject", WireStatus: "FAILED"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	rows, err := l.ForOrder(ctx, "DP-gorm-test")
	if err != nil || len(rows) == 0 {
		t.Fatalf("expected recorded row, got %d (%v)", len(rows), err)
	}
	_ = db.Delete(&Decision{}, "id = ?", d.ID)
}
