package washersrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
	"gorm.io/gorm"
)

type gWasher struct {
	WID               int64 `gorm:"primaryKey;column:wid"`
	Name              string
	CommissionPercent float64
}

func (gw *gWasher) TableName() string {
	return "washers"
}

func (gw *gWasher) Model() *model.Washer {
	return &model.Washer{
		ID:                gw.WID,
		Name:              gw.Name,
		CommissionPercent: gw.CommissionPercent,
	}
}

// Repo implements the repo.Washers directory port, reading the worker
// records from the washers table. It is a read-only collaborator, so
// it owns a connection pool instead of being guided by a Conn or Tx
// like the entity repositories.
type Repo struct {
	pool *postgres.Pool
}

// New instantiates a washers directory Repo over the given pool.
func New(p *postgres.Pool) *Repo {
	return &Repo{pool: p}
}

// Resolve returns the directory record of the given washer id.
// A missing id is reported wrapping the model.ErrUnknownWasher
// sentinel error.
func (washers *Repo) Resolve(ctx context.Context, washerID int64) (*model.Washer, error) {
	var w *model.Washer
	err := washers.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		gdb := c.(*postgres.Conn).GORM(ctx)
		var gw gWasher
		err := gdb.Where("wid=?", washerID).First(&gw).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("washer %d: %w", washerID, model.ErrUnknownWasher)
		}
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		w = gw.Model()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// List returns all directory records, ordered by washer id.
func (washers *Repo) List(ctx context.Context) ([]model.Washer, error) {
	var ws []model.Washer
	err := washers.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		gdb := c.(*postgres.Conn).GORM(ctx)
		var rows []gWasher
		if err := gdb.Order("wid").Find(&rows).Error; err != nil {
			return fmt.Errorf("query: %w", err)
		}
		ws = make([]model.Washer, 0, len(rows))
		for i := range rows {
			ws = append(ws, *rows[i].Model())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}
