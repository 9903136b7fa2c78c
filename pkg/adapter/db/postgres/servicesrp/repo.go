package servicesrp

import (
	"context"
	"time"

	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
)

// Repo implements the repo.Services interface, storing the washing
// service jobs in the washing_services table.
type Repo struct {
}

// New instantiates a washing services Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (services *Repo) Conn(c repo.Conn) repo.ServicesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, s model.WashingService) error {
	return Save(ctx, cq.Conn, s)
}

func (cq connQueryer) LoadSince(ctx context.Context, from time.Time) ([]model.WashingService, error) {
	return LoadSince(ctx, cq.Conn, from)
}

type txQueryer struct {
	*postgres.Tx
}

func (services *Repo) Tx(tx repo.Tx) repo.ServicesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, s model.WashingService) error {
	return Save(ctx, tq.Tx, s)
}

func (tq txQueryer) LoadSince(ctx context.Context, from time.Time) ([]model.WashingService, error) {
	return LoadSince(ctx, tq.Tx, from)
}
