package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunSchema creates the menu items table and its indexes if they do not
// exist. The parent_id foreign key keeps referential integrity in the
// database itself; depth is a cached derived column maintained by the
// service inside the same transaction as any parent change.
func RunSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				parent_id UUID REFERENCES %s(id),
				depth INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.MenuItems, tables.MenuItems),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_parent_id ON %s (parent_id)`,
			tables.MenuItems, tables.MenuItems),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_depth ON %s (depth)`,
			tables.MenuItems, tables.MenuItems),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at)`,
			tables.MenuItems, tables.MenuItems),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
	}

	return nil
}

// DropSchema drops the menu items table. Used by the seeder's
// -drop-tables flag; never called by the server.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, tables.MenuItems)); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
