package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects every schema change; each file registers one step.
var Migrations = migrate.NewMigrations()
