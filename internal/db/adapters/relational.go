package adapters

import (
	"context"
	"database/sql"
	"time"

	"schemalens/internal/logger"
	"schemalens/internal/schema"
	"schemalens/pkg/config"
)

// connectTimeout bounds the liveness check at connect time. Introspection
// queries themselves run without an imposed deadline.
var connectTimeout = 10 * time.Second

// SetConnectTimeout overrides the connect-time liveness deadline for all
// adapters. Non-positive durations are ignored.
func SetConnectTimeout(d time.Duration) {
	if d > 0 {
		connectTimeout = d
	}
}

// columnRow is one catalog row describing a column.
type columnRow struct {
	name     string
	typeName string
	nullable bool
	dflt     sql.NullString
}

// fkRow is one catalog row describing a single column pair of a
// foreign-key constraint. Rows arrive ordered by constraint then by
// position within the constraint.
type fkRow struct {
	constraint string
	column     string
	refTable   string
	refColumn  string
}

// catalog is what a relational engine plugs into the shared adapter:
// its driver, its DSN shape and its metadata queries.
type catalog interface {
	driverName() string
	dsn(cfg config.Settings) string
	tables(ctx context.Context, db *sql.DB) ([]string, error)
	columns(ctx context.Context, db *sql.DB, table string) ([]columnRow, error)
	primaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error)
	foreignKeys(ctx context.Context, db *sql.DB, table string) ([]fkRow, error)
}

// relationalAdapter implements db.Adapter for any engine reachable
// through database/sql. All engine differences live in the catalog.
type relationalAdapter struct {
	cfg config.Settings
	cat catalog
	db  *sql.DB
}

func (a *relationalAdapter) Connect() bool {
	// reconnecting releases the held handle instead of leaking it
	a.Disconnect()
	conn, err := sql.Open(a.cat.driverName(), a.cat.dsn(a.cfg))
	if err != nil {
		logger.Error("%s connection error: %v", a.cat.driverName(), err)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		logger.Error("%s connection error: %v", a.cat.driverName(), err)
		conn.Close()
		return false
	}
	a.db = conn
	return true
}

func (a *relationalAdapter) Disconnect() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func (a *relationalAdapter) ListContainers() []string {
	if a.db == nil {
		return nil
	}
	names, err := a.cat.tables(context.Background(), a.db)
	if err != nil {
		logger.Error("%s list tables: %v", a.cat.driverName(), err)
		return nil
	}
	return names
}

func (a *relationalAdapter) DescribeContainer(name string) schema.ContainerSchema {
	if a.db == nil {
		return schema.ContainerSchema{}
	}
	ctx := context.Background()
	s := schema.ContainerSchema{Name: name, Kind: schema.KindTable}

	pks, err := a.cat.primaryKeys(ctx, a.db, name)
	if err != nil {
		logger.Error("%s primary keys for %s: %v", a.cat.driverName(), name, err)
	}
	s.PrimaryKeys = pks
	pkSet := make(map[string]bool, len(pks))
	for _, pk := range pks {
		pkSet[pk] = true
	}

	cols, err := a.cat.columns(ctx, a.db, name)
	if err != nil {
		logger.Error("%s columns for %s: %v", a.cat.driverName(), name, err)
	}
	for _, c := range cols {
		var dflt *string
		if c.dflt.Valid {
			v := c.dflt.String
			dflt = &v
		}
		s.Columns.Add(c.name, schema.Column{
			Type:       c.typeName,
			Nullable:   c.nullable,
			Default:    dflt,
			PrimaryKey: pkSet[c.name],
		})
	}

	rows, err := a.cat.foreignKeys(ctx, a.db, name)
	if err != nil {
		logger.Error("%s foreign keys for %s: %v", a.cat.driverName(), name, err)
	}
	s.ForeignKeys = groupForeignKeys(rows)
	return s
}

// groupForeignKeys folds ordered per-column rows into one ForeignKey per
// constraint, keeping the constraints in first-appearance order and the
// columns in row order.
func groupForeignKeys(rows []fkRow) []schema.ForeignKey {
	var fks []schema.ForeignKey
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.constraint]
		if !ok {
			i = len(fks)
			index[r.constraint] = i
			fks = append(fks, schema.ForeignKey{ReferredTable: r.refTable})
		}
		fks[i].ConstrainedColumns = append(fks[i].ConstrainedColumns, r.column)
		fks[i].ReferredColumns = append(fks[i].ReferredColumns, r.refColumn)
	}
	return fks
}
