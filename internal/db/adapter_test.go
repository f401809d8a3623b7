package db

import (
	"errors"
	"testing"

	"schemalens/internal/schema"
	"schemalens/pkg/config"
)

var testBackend string = "testbackend"

type testAdapter struct {
	cfg config.Settings
}

func (*testAdapter) Connect() bool           { return false }
func (*testAdapter) Disconnect()             {}
func (*testAdapter) ListContainers() []string { return nil }
func (*testAdapter) DescribeContainer(name string) schema.ContainerSchema {
	return schema.ContainerSchema{}
}

func TestRegister(t *testing.T) {
	// tests both Register and RegisteredTypes because they take the same setup

	Register(testBackend, func(cfg config.Settings) Adapter {
		return &testAdapter{cfg: cfg}
	})

	if _, ok := backends[testBackend]; !ok {
		t.Errorf("\nbackend %v not registered correctly in %v", testBackend, backends)
	}

	rt := RegisteredTypes()

	if !(len(rt) == 1 && rt[0] == testBackend) {
		t.Errorf("\nRegisteredTypes returned unexpected result %v", rt)
	}
}

func TestGetConnection(t *testing.T) {

	var tests = []struct {
		name          string
		dbType        string
		registerFirst bool
		errIsNil      bool
	}{
		{"registered backend", testBackend, true, true},
		{"registered backend mixed case", "TestBackend", true, true},
		{"unregistered backend", "no-such-engine", false, false},
		{"empty db_type", "", false, false},
	}

	for _, tt := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(tt.name, func(t *testing.T) {
			if tt.registerFirst {
				Register(testBackend, func(cfg config.Settings) Adapter {
					return &testAdapter{cfg: cfg}
				})
			}

			a, err := GetConnection(config.Settings{DBType: tt.dbType})

			if (err == nil) != tt.errIsNil {
				if tt.errIsNil {
					t.Errorf("\ngot unexpected error: \"%v\"", err)
				} else {
					t.Errorf("\nexpected an error, did not receive one")
				}
			}
			if tt.errIsNil && a == nil {
				t.Errorf("\ngot nil adapter for registered backend")
			}
			if !tt.errIsNil {
				var icErr *InvalidConfigurationError
				if !errors.As(err, &icErr) {
					t.Errorf("\ngot error %T, wanted *InvalidConfigurationError", err)
				} else if icErr.DBType != tt.dbType {
					t.Errorf("\ngot offending type %q, wanted %q", icErr.DBType, tt.dbType)
				}
			}
		})
	}
}

func TestGetConnectionPassesSettings(t *testing.T) {
	Register(testBackend, func(cfg config.Settings) Adapter {
		return &testAdapter{cfg: cfg}
	})

	want := config.Settings{DBType: testBackend, DBHost: "h", DBName: "d"}
	a, err := GetConnection(want)
	if err != nil {
		t.Fatalf("got unexpected error: %v", err)
	}
	ta, ok := a.(*testAdapter)
	if !ok {
		t.Fatalf("got adapter %T, wanted *testAdapter", a)
	}
	if ta.cfg != want {
		t.Errorf("\ngot settings %v, wanted %v", ta.cfg, want)
	}
}
