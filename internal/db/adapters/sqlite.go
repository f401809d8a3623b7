package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"schemalens/internal/db"
	"schemalens/pkg/config"
)

// sqliteCatalog reads sqlite_master and the table_info /
// foreign_key_list pragmas.
type sqliteCatalog struct{}

// quoteLiteral doubles embedded single quotes; the pragmas take no
// placeholders, so table names are interpolated as SQL string literals.
func quoteLiteral(name string) string {
	return strings.ReplaceAll(name, "'", "''")
}

func (sqliteCatalog) driverName() string { return "sqlite" }

func (sqliteCatalog) dsn(cfg config.Settings) string { return config.SQLiteDSN(cfg) }

func (sqliteCatalog) tables(ctx context.Context, dbConn *sql.DB) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT name FROM sqlite_master
        WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
        ORDER BY name`)
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

func (sqliteCatalog) columns(ctx context.Context, dbConn *sql.DB, table string) ([]columnRow, error) {
	rows, err := dbConn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", quoteLiteral(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []columnRow
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, columnRow{
			name:     name,
			typeName: ctype,
			nullable: notnull == 0,
			dflt:     dflt,
		})
	}
	return cols, rows.Err()
}

// primaryKeys re-reads table_info; the pk column carries the 1-based
// position of the column within the primary key, which preserves
// composite-key order.
func (sqliteCatalog) primaryKeys(ctx context.Context, dbConn *sql.DB, table string) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", quoteLiteral(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type pkCol struct {
		ord  int
		name string
	}
	var found []pkCol
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		if pk > 0 {
			found = append(found, pkCol{ord: pk, name: name})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ord < found[j].ord })
	pks := make([]string, 0, len(found))
	for _, c := range found {
		pks = append(pks, c.name)
	}
	return pks, nil
}

func (sqliteCatalog) foreignKeys(ctx context.Context, dbConn *sql.DB, table string) ([]fkRow, error) {
	rows, err := dbConn.QueryContext(ctx, fmt.Sprintf(`
        SELECT id, "table", "from", "to"
        FROM pragma_foreign_key_list('%s')
        ORDER BY id, seq`, quoteLiteral(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []fkRow
	for rows.Next() {
		var id int
		var refTable, from string
		var to sql.NullString // NULL when the reference names no columns
		if err := rows.Scan(&id, &refTable, &from, &to); err != nil {
			return nil, err
		}
		fks = append(fks, fkRow{
			constraint: fmt.Sprintf("fk_%d", id),
			column:     from,
			refTable:   refTable,
			refColumn:  to.String,
		})
	}
	return fks, rows.Err()
}

func init() {
	db.Register("sqlite", func(cfg config.Settings) db.Adapter {
		return &relationalAdapter{cfg: cfg, cat: sqliteCatalog{}}
	})
}
