package adapters

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"schemalens/internal/db"
	"schemalens/pkg/config"
)

// mysqlCatalog reads the MySQL information_schema, scoped to the
// database the connection is bound to.
type mysqlCatalog struct{}

func (mysqlCatalog) driverName() string { return "mysql" }

func (mysqlCatalog) dsn(cfg config.Settings) string { return config.MySQLDSN(cfg) }

func (mysqlCatalog) tables(ctx context.Context, dbConn *sql.DB) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
        ORDER BY table_name`)
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

func (mysqlCatalog) columns(ctx context.Context, dbConn *sql.DB, table string) ([]columnRow, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT column_name, column_type, is_nullable = 'YES', column_default
        FROM information_schema.columns
        WHERE table_schema = DATABASE() AND table_name = ?
        ORDER BY ordinal_position`, table)
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

func (mysqlCatalog) primaryKeys(ctx context.Context, dbConn *sql.DB, table string) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT k.column_name
        FROM information_schema.key_column_usage k
        JOIN information_schema.table_constraints tc
          ON k.constraint_name = tc.constraint_name
         AND k.table_schema = tc.table_schema
         AND k.table_name = tc.table_name
        WHERE tc.constraint_type = 'PRIMARY KEY'
          AND k.table_schema = DATABASE() AND k.table_name = ?
        ORDER BY k.ordinal_position`, table)
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

func (mysqlCatalog) foreignKeys(ctx context.Context, dbConn *sql.DB, table string) ([]fkRow, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
        FROM information_schema.key_column_usage
        WHERE table_schema = DATABASE() AND table_name = ?
          AND referenced_table_name IS NOT NULL
        ORDER BY constraint_name, ordinal_position`, table)
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
	db.Register("mysql", func(cfg config.Settings) db.Adapter {
		return &relationalAdapter{cfg: cfg, cat: mysqlCatalog{}}
	})
}
