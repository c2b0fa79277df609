package conflict

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Check runs conflict validation against the given executor. Booking
// repositories call it inside the transaction that holds the resource
// row locks, so the answer cannot be invalidated by a concurrent
// writer between check and insert.
type Check func(ctx context.Context, db sqlx.ExtContext) error
