package decisions

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

type Log interface {
	Record(ctx context.Context, in RecordInput) (Decision, error)
	Recent(ctx context.Context, limit int) ([]Decision, error)
	ForOrder(ctx context.Context, orderID string) ([]Decision, error)
}

func clampLimit(limit int) int {
	if limit < 1 || limit > 100 {
		return 20
	}
	return limit
}

type GormLog struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLog(db *gorm.DB) *GormLog { return &GormLog{db: db, now: time.Now} }

func (l *GormLog) Record(ctx context.Context, in RecordInput) (Decision, error) {
	d, err := NewDecision(in, l.now())
	if err != nil {
		return Decision{}, err
	}
	if err := l.db.WithContext(ctx).Create(&d).Error; err != nil {
		return Decision{}, classify(err)
	}
	return d, nil
}

func (l *GormLog) Recent(ctx context.Context, limit int) ([]Decision, error) {
	var out []Decision
	err := l.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, err
}

func (l *GormLog) ForOrder(ctx context.Context, orderID string) ([]Decision, error) {
	var out []Decision
	err := l.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&out, "order_id = ?", orderID).Error
	return out, err
}

// MemoryLog is used when no database is configured.
type MemoryLog struct {
	mu   sync.Mutex
	rows []Decision
	max  int
	now  func() time.Time
}

func NewMemoryLog(max int) *MemoryLog {
	if max < 1 {
		max = 500
	}
	return &MemoryLog{max: max, now: time.Now}
}

func (l *MemoryLog) Record(_ context.Context, in RecordInput) (Decision, error) {
	d, err := NewDecision(in, l.now())
	if err != nil {
		return Decision{}, err
	}
	l.mu.Lock()
	l.rows = append(l.rows, d)
	if len(l.rows) > l.max {
		l.rows = l.rows[len(l.rows)-l.max:]
	}
	l.mu.Unlock()
	return d, nil
}

func (l *MemoryLog) Recent(_ context.Context, limit int) ([]Decision, error) {
	l.mu.Lock()
	out := append([]Decision(nil), l.rows...)
	l.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (l *MemoryLog) ForOrder(ctx context.Context, orderID string) ([]Decision, error) {
	all, _ := l.Recent(ctx, 100)
	var out []Decision
	for _, d := range all {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}
