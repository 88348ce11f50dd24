package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Transactor runs a unit of work against the store.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type txState struct {
	tx          *sqlx.Tx
	afterCommit []func(ctx context.Context)
}

// Transact runs fn in one write transaction on the SQL drivers. Repositories
// find the transaction in the context handed to fn. Mongo has no
// transactions on a standalone server, so there fn runs directly and only
// the after-commit hooks are deferred. Hooks registered with AfterCommit run
// once fn and the commit succeed, and are dropped otherwise. A nested call
// joins the outer unit of work.
func (c *Connection) Transact(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}

	if c.IsSQL() {
		state.tx, err = c.Write.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		defer func() {
			if p := recover(); p != nil {
				_ = state.tx.Rollback()

				panic(p)
			}

			if err == nil {
				return
			}

			if rbErr := state.tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}()
	}

	if err = fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}

	if state.tx != nil {
		if err = state.tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	for _, hook := range state.afterCommit {
		hook(ctx)
	}

	return nil
}

// Tx returns the SQL transaction of the unit of work in ctx, if any.
func Tx(ctx context.Context) (*sqlx.Tx, bool) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok || state.tx == nil {
		return nil, false
	}

	return state.tx, true
}

// AfterCommit defers fn until the unit of work in ctx commits. Outside of
// Transact fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		fn(ctx)

		return
	}

	state.afterCommit = append(state.afterCommit, fn)
}
