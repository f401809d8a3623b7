package adapters

import (
	"errors"
	"testing"

	"schemalens/internal/db"
	"schemalens/pkg/config"
)

func TestGetConnectionVariants(t *testing.T) {
	var tests = []struct {
		dbType string
		cat    catalog // nil means the document adapter
	}{
		{"mysql", mysqlCatalog{}},
		{"MySQL", mysqlCatalog{}},
		{"postgres", pgCatalog{}},
		{"postgresql", pgCatalog{}},
		{"PostgreSQL", pgCatalog{}},
		{"sqlite", sqliteCatalog{}},
		{"SQLite", sqliteCatalog{}},
		{"mongodb", nil},
		{"mongo", nil},
		{"MongoDB", nil},
	}

	for _, tt := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(tt.dbType, func(t *testing.T) {
			a, err := db.GetConnection(config.Settings{DBType: tt.dbType})
			if err != nil {
				t.Fatalf("got unexpected error: %v", err)
			}
			if tt.cat == nil {
				if _, ok := a.(*mongoAdapter); !ok {
					t.Errorf("\ngot adapter %T, wanted *mongoAdapter for %q", a, tt.dbType)
				}
				return
			}
			ra, ok := a.(*relationalAdapter)
			if !ok {
				t.Fatalf("got adapter %T, wanted *relationalAdapter for %q", a, tt.dbType)
			}
			if ra.cat != tt.cat {
				t.Errorf("\ngot catalog %T, wanted %T for %q", ra.cat, tt.cat, tt.dbType)
			}
		})
	}
}

func TestGetConnectionUnsupported(t *testing.T) {
	var tests = []string{"oracle", "mssql", "sqlite3", "cassandra", ""}

	for _, dbType := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(dbType, func(t *testing.T) {
			_, err := db.GetConnection(config.Settings{DBType: dbType})
			var icErr *db.InvalidConfigurationError
			if !errors.As(err, &icErr) {
				t.Fatalf("got error %v (%T), wanted *InvalidConfigurationError", err, err)
			}
			if icErr.DBType != dbType {
				t.Errorf("\ngot offending type %q, wanted %q", icErr.DBType, dbType)
			}
		})
	}
}

// Adapters degrade to empty results before any successful Connect, and
// Disconnect is idempotent even when never connected.
func TestNeverConnectedAdapters(t *testing.T) {
	var tests = []string{"mysql", "postgres", "sqlite", "mongodb"}

	for _, dbType := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(dbType, func(t *testing.T) {
			a, err := db.GetConnection(config.Settings{DBType: dbType})
			if err != nil {
				t.Fatalf("got unexpected error: %v", err)
			}

			if names := a.ListContainers(); len(names) != 0 {
				t.Errorf("\ngot containers %v before connect, wanted none", names)
			}

			s := a.DescribeContainer("anything")
			if s.Columns.Len() != 0 || len(s.PrimaryKeys) != 0 || len(s.ForeignKeys) != 0 {
				t.Errorf("\ngot non-empty schema %+v before connect", s)
			}

			a.Disconnect()
			a.Disconnect()
		})
	}
}
