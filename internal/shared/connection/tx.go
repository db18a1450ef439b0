package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Scoped binds db to ctx and, when tx is set, routes its statements through
// the caller's *sql.Tx so gorm repositories share the service transaction.
func Scoped(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	scoped := db.WithContext(ctx)
	if tx != nil {
		scoped.Statement.ConnPool = tx
	}
	return scoped
}
