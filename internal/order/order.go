package order

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Order statuses.
const (
	StatusNew       = "new"
	StatusOnProcess = "on_process"
	StatusDone      = "done"
)

// Order item statuses.
const (
	ItemStatusPending   = "pending"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
	ItemStatusCancelled = "cancelled"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountAmount     = "amount"
)

// Table statuses.
const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableMaintenance = "maintenance"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx. The recompute
// helpers run inside the same transaction as the mutation that triggered
// them, so they take the narrowest interface that covers both.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
