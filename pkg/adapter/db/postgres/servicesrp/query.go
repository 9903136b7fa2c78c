package servicesrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gService struct {
	SID         uuid.UUID `gorm:"primaryKey;type:uuid;column:sid"`
	Plate       string
	ServiceType string
	Price       int64
	WasherID    *int64
	Status      string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (gs *gService) TableName() string {
	return "washing_services"
}

func (gs *gService) Model() (*model.WashingService, error) {
	st, err := model.ParseServiceType(gs.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("service type %q: %w", gs.ServiceType, err)
	}
	status, err := model.ParseServiceStatus(gs.Status)
	if err != nil {
		return nil, fmt.Errorf("status %q: %w", gs.Status, err)
	}
	return &model.WashingService{
		ID:          gs.SID,
		Plate:       gs.Plate,
		ServiceType: st,
		Price:       model.Money(gs.Price),
		WasherID:    gs.WasherID,
		Status:      status,
		CreatedAt:   gs.CreatedAt,
		StartedAt:   gs.StartedAt,
		CompletedAt: gs.CompletedAt,
	}, nil
}

func toRow(s model.WashingService) gService {
	return gService{
		SID:         s.ID,
		Plate:       s.Plate,
		ServiceType: s.ServiceType.String(),
		Price:       int64(s.Price),
		WasherID:    s.WasherID,
		Status:      s.Status.String(),
		CreatedAt:   s.CreatedAt,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
}

// Save upserts the given service row, keyed by its service id, so the
// create operation inserts a fresh Pending row and each transition
// overwrites it with its advanced state.
func Save[Q postgres.Queryer](ctx context.Context, q Q, s model.WashingService) error {
	gdb := q.GORM(ctx)
	gs := toRow(s)
	gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		UpdateAll: true,
	}).Create(&gs)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// LoadSince fetches all not yet Completed services plus any service
// whose creation time is not before the `from` instant, ordered by
// creation time.
func LoadSince[Q postgres.Queryer](ctx context.Context, q Q, from time.Time) ([]model.WashingService, error) {
	gdb := q.GORM(ctx)
	var rows []gService
	gdb.Where(
		"status<>? OR created_at>=?",
		model.ServiceStatusCompleted.String(), from,
	).Order("created_at").Find(&rows)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	services := make([]model.WashingService, 0, len(rows))
	for i := range rows {
		s, err := rows[i].Model()
		if err != nil {
			return nil, fmt.Errorf("row sid=%v: %w", rows[i].SID, err)
		}
		services = append(services, *s)
	}
	return services, nil
}
