package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cartSlot is one row per named slot; the whole cart lives in Payload.
type cartSlot struct {
	Key       string `gorm:"primaryKey;size:128"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (cartSlot) TableName() string {
	return "cart_slots"
}

type SlotRepo struct {
	db  *gorm.DB
	key string
}

func NewSlotRepo(db *gorm.DB, key string) *SlotRepo {
	return &SlotRepo{db: db, key: key}
}

// Migrate creates the cart_slots table when it does not exist.
func (r *SlotRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&cartSlot{}); err != nil {
		return errors.Wrap(err, "migrate cart_slots")
	}
	return nil
}

func (r *SlotRepo) Get(ctx context.Context) (string, bool, error) {
	var row cartSlot
	err := r.db.WithContext(ctx).Where("key = ?", r.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "load slot %s", r.key)
	}
	return row.Payload, true, nil
}

func (r *SlotRepo) Set(ctx context.Context, blob string) error {
	row := cartSlot{Key: r.key, Payload: blob, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "save slot %s", r.key)
	}
	return nil
}
