package adapters

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"schemalens/internal/db"
	"schemalens/pkg/config"
)

// The catalog queries are scoped to current_schema(), the search-path
// schema a default inspector works in. Without the scope, two same-named
// tables in different schemas would merge into one description.
const (
	pgTablesQuery = `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_type = 'BASE TABLE' AND table_schema = current_schema()
        ORDER BY table_name`

	pgColumnsQuery = `
        SELECT column_name, data_type, is_nullable = 'YES', column_default
        FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = $1
        ORDER BY ordinal_position`

	pgPrimaryKeysQuery = `
        SELECT kcu.column_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
          ON tc.constraint_name = kcu.constraint_name
         AND tc.constraint_schema = kcu.constraint_schema
        WHERE tc.constraint_type = 'PRIMARY KEY'
          AND tc.table_schema = current_schema() AND tc.table_name = $1
        ORDER BY kcu.ordinal_position`

	// The referenced-side column for each FK member is found through
	// position_in_unique_constraint: an FK may reference the unique
	// constraint's columns in a permuted order, so pairing by the FK
	// member's own ordinal_position would report the wrong columns.
	pgForeignKeysQuery = `
        SELECT tc.constraint_name, kcu.column_name, rkcu.table_name, rkcu.column_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
          ON tc.constraint_name = kcu.constraint_name
         AND tc.constraint_schema = kcu.constraint_schema
        JOIN information_schema.referential_constraints rc
          ON tc.constraint_name = rc.constraint_name
         AND tc.constraint_schema = rc.constraint_schema
        JOIN information_schema.key_column_usage rkcu
          ON rc.unique_constraint_name = rkcu.constraint_name
         AND rc.unique_constraint_schema = rkcu.constraint_schema
         AND kcu.position_in_unique_constraint = rkcu.ordinal_position
        WHERE tc.constraint_type = 'FOREIGN KEY'
          AND tc.table_schema = current_schema() AND tc.table_name = $1
        ORDER BY tc.constraint_name, kcu.ordinal_position`
)

// pgCatalog reads information_schema within the connection's
// search-path schema.
type pgCatalog struct{}

func (pgCatalog) driverName() string { return "postgres" }

func (pgCatalog) dsn(cfg config.Settings) string { return config.PostgresDSN(cfg) }

func (pgCatalog) tables(ctx context.Context, dbConn *sql.DB) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, pgTablesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (pgCatalog) columns(ctx context.Context, dbConn *sql.DB, table string) ([]columnRow, error) {
	rows, err := dbConn.QueryContext(ctx, pgColumnsQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []columnRow
	for rows.Next() {
		var c columnRow
		if err := rows.Scan(&c.name, &c.typeName, &c.nullable, &c.dflt); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (pgCatalog) primaryKeys(ctx context.Context, dbConn *sql.DB, table string) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, pgPrimaryKeysQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pks []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pks = append(pks, name)
	}
	return pks, rows.Err()
}

func (pgCatalog) foreignKeys(ctx context.Context, dbConn *sql.DB, table string) ([]fkRow, error) {
	rows, err := dbConn.QueryContext(ctx, pgForeignKeysQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []fkRow
	for rows.Next() {
		var r fkRow
		if err := rows.Scan(&r.constraint, &r.column, &r.refTable, &r.refColumn); err != nil {
			return nil, err
		}
		fks = append(fks, r)
	}
	return fks, rows.Err()
}

func init() {
	constructor := func(cfg config.Settings) db.Adapter {
		return &relationalAdapter{cfg: cfg, cat: pgCatalog{}}
	}
	db.Register("postgres", constructor)
	db.Register("postgresql", constructor)
}
