package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-wagers/internal/models"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

// SettlementStore persists settlements in postgres. It satisfies settlement.Store.
type SettlementStore struct {
	db *gorm.DB
}

func NewSettlementStore(db *gorm.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

func (s *SettlementStore) Create(ctx context.Context, st settlement.Settlement) error {
	row, err := toSettlementModel(st)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return settlement.ErrConflict
	}
	return err
}

// CreateBatch inserts a round's settlements in one transaction: either every row
// lands or none does. A unique-key violation rolls the batch back as ErrConflict.
func (s *SettlementStore) CreateBatch(ctx context.Context, batch []settlement.Settlement) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([]models.Settlement, 0, len(batch))
	for _, st := range batch {
		row, err := toSettlementModel(st)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	// db.Transaction commits when the callback returns nil and rolls back on any error.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return settlement.ErrConflict
	}
	return err
}

func (s *SettlementStore) Get(ctx context.Context, id string) (settlement.Settlement, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return settlement.Settlement{}, settlement.ErrNotFound
	}
	var row models.Settlement
	err = s.db.WithContext(ctx).First(&row, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settlement.Settlement{}, settlement.ErrNotFound
	}
	if err != nil {
		return settlement.Settlement{}, err
	}
	return fromSettlementModel(row), nil
}

func (s *SettlementStore) ListByUser(ctx context.Context, userID string) ([]settlement.Settlement, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return []settlement.Settlement{}, nil
	}
	return s.list(ctx, "from_user_id = ? OR to_user_id = ?", uid, uid)
}

func (s *SettlementStore) ListByRound(ctx context.Context, roundID string) ([]settlement.Settlement, error) {
	uid, err := uuid.Parse(roundID)
	if err != nil {
		return []settlement.Settlement{}, nil
	}
	return s.list(ctx, "round_id = ?", uid)
}

// Transition is a conditional UPDATE keyed on the expected status. Postgres applies
// it atomically, so of two racing writers only one sees a row affected.
func (s *SettlementStore) Transition(ctx context.Context, id string, from, to settlement.Status, at time.Time) (settlement.Settlement, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return settlement.Settlement{}, settlement.ErrNotFound
	}

	updates := map[string]any{"status": string(to)}
	switch to {
	case settlement.StatusPaid:
		updates["paid_at"] = at
	case settlement.StatusSettled:
		updates["confirmed_at"] = at
	case settlement.StatusDisputed:
		updates["disputed_at"] = at
	}

	res := s.db.WithContext(ctx).Model(&models.Settlement{}).
		Where("id = ? AND status = ?", uid, string(from)).
		Updates(updates)
	if res.Error != nil {
		return settlement.Settlement{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return settlement.Settlement{}, err
		}
		return settlement.Settlement{}, settlement.ErrStatusConflict
	}
	return s.Get(ctx, id)
}

func (s *SettlementStore) list(ctx context.Context, query string, args ...any) ([]settlement.Settlement, error) {
	var rows []models.Settlement
	if err := s.db.WithContext(ctx).Where(query, args...).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]settlement.Settlement, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromSettlementModel(row))
	}
	return out, nil
}

func toSettlementModel(st settlement.Settlement) (models.Settlement, error) {
	ids := make([]uuid.UUID, 4)
	for i, raw := range []string{st.ID, st.RoundID, st.FromUserID, st.ToUserID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.Settlement{}, fmt.Errorf("settlement %s: bad id %q: %w", st.ID, raw, err)
		}
		ids[i] = id
	}
	return models.Settlement{
		ID:          ids[0],
		RoundID:     ids[1],
		FromUserID:  ids[2],
		ToUserID:    ids[3],
		Amount:      st.Amount,
		Status:      string(st.Status),
		CreatedAt:   st.CreatedAt,
		PaidAt:      st.PaidAt,
		ConfirmedAt: st.ConfirmedAt,
		DisputedAt:  st.DisputedAt,
	}, nil
}

func fromSettlementModel(row models.Settlement) settlement.Settlement {
	return settlement.Settlement{
		ID:          row.ID.String(),
		RoundID:     row.RoundID.String(),
		FromUserID:  row.FromUserID.String(),
		ToUserID:    row.ToUserID.String(),
		Amount:      row.Amount,
		Status:      settlement.Status(row.Status),
		CreatedAt:   row.CreatedAt.UTC(),
		PaidAt:      utcPtr(row.PaidAt),
		ConfirmedAt: utcPtr(row.ConfirmedAt),
		DisputedAt:  utcPtr(row.DisputedAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
