package db

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the tables the services expect. Every statement is
// idempotent so it is safe to run on each start.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
