package sessionsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gSession struct {
	SID          uuid.UUID `gorm:"primaryKey;type:uuid;column:sid"`
	Plate        string
	VehicleClass string
	EntryTime    time.Time
	ExitTime     *time.Time
	HelmetCount  int
	Status       string
	TotalCost    int64
}

func (gs *gSession) TableName() string {
	return "parking_sessions"
}

func (gs *gSession) Model() (*model.ParkingSession, error) {
	vc, err := model.ParseVehicleClass(gs.VehicleClass)
	if err != nil {
		return nil, fmt.Errorf("vehicle class %q: %w", gs.VehicleClass, err)
	}
	status, err := model.ParseSessionStatus(gs.Status)
	if err != nil {
		return nil, fmt.Errorf("status %q: %w", gs.Status, err)
	}
	return &model.ParkingSession{
		ID:           gs.SID,
		Plate:        gs.Plate,
		VehicleClass: vc,
		EntryTime:    gs.EntryTime,
		ExitTime:     gs.ExitTime,
		HelmetCount:  gs.HelmetCount,
		Status:       status,
		TotalCost:    model.Money(gs.TotalCost),
	}, nil
}

func toRow(s model.ParkingSession) gSession {
	return gSession{
		SID:          s.ID,
		Plate:        s.Plate,
		VehicleClass: s.VehicleClass.String(),
		EntryTime:    s.EntryTime,
		ExitTime:     s.ExitTime,
		HelmetCount:  s.HelmetCount,
		Status:       s.Status.String(),
		TotalCost:    int64(s.TotalCost),
	}
}

// Save upserts the given session row, keyed by its session id, so the
// open operation inserts a fresh Active row and the close operation
// overwrites it with its Completed state.
func Save[Q postgres.Queryer](ctx context.Context, q Q, s model.ParkingSession) error {
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

// LoadSince fetches all Active sessions plus any session whose entry
// time is not before the `from` instant, ordered by entry time.
func LoadSince[Q postgres.Queryer](ctx context.Context, q Q, from time.Time) ([]model.ParkingSession, error) {
	gdb := q.GORM(ctx)
	var rows []gSession
	gdb.Where(
		"status=? OR entry_time>=?",
		model.SessionStatusActive.String(), from,
	).Order("entry_time").Find(&rows)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	sessions := make([]model.ParkingSession, 0, len(rows))
	for i := range rows {
		s, err := rows[i].Model()
		if err != nil {
			return nil, fmt.Errorf("row sid=%v: %w", rows[i].SID, err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, nil
}
