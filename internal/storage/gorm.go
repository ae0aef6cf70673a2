package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateEntry is one row of console_state.
type StateEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)"`
	Value     []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (StateEntry) TableName() string { return "console_state" }

type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{DB: db} }

func (g *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	var e StateEntry
	err := g.DB.WithContext(ctx).First(&e, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (g *Gorm) Put(ctx context.Context, key string, value []byte) error {
	e := StateEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	return g.DB.WithContext(ctx).Delete(&StateEntry{}, "`key` = ?", key).Error
}

func (g *Gorm) String() string { return "mysql(console_state)" }
