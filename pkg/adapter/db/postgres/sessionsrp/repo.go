package sessionsrp

import (
	"context"
	"time"

	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
)

// Repo implements the repo.Sessions interface, storing the parking
// sessions ledger rows in the parking_sessions table.
type Repo struct {
}

// New instantiates a parking sessions Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (sessions *Repo) Conn(c repo.Conn) repo.SessionsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, s model.ParkingSession) error {
	return Save(ctx, cq.Conn, s)
}

func (cq connQueryer) LoadSince(ctx context.Context, from time.Time) ([]model.ParkingSession, error) {
	return LoadSince(ctx, cq.Conn, from)
}

type txQueryer struct {
	*postgres.Tx
}

func (sessions *Repo) Tx(tx repo.Tx) repo.SessionsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, s model.ParkingSession) error {
	return Save(ctx, tq.Tx, s)
}

func (tq txQueryer) LoadSince(ctx context.Context, from time.Time) ([]model.ParkingSession, error) {
	return LoadSince(ctx, tq.Tx, from)
}
