package adapters

import (
	"reflect"
	"testing"
	"time"

	"schemalens/internal/schema"
)

func TestSetConnectTimeout(t *testing.T) {
	old := connectTimeout
	t.Cleanup(func() { connectTimeout = old })

	SetConnectTimeout(3 * time.Second)
	if connectTimeout != 3*time.Second {
		t.Errorf("\ngot timeout %v, wanted 3s", connectTimeout)
	}

	// non-positive durations are ignored
	SetConnectTimeout(0)
	SetConnectTimeout(-time.Second)
	if connectTimeout != 3*time.Second {
		t.Errorf("\ngot timeout %v after non-positive sets, wanted 3s kept", connectTimeout)
	}
}

func TestGroupForeignKeys(t *testing.T) {
	rows := []fkRow{
		{constraint: "fk_b", column: "x", refTable: "t1", refColumn: "p"},
		{constraint: "fk_b", column: "y", refTable: "t1", refColumn: "q"},
		{constraint: "fk_a", column: "z", refTable: "t2", refColumn: "r"},
	}

	got := groupForeignKeys(rows)

	want := []schema.ForeignKey{
		{ConstrainedColumns: []string{"x", "y"}, ReferredTable: "t1", ReferredColumns: []string{"p", "q"}},
		{ConstrainedColumns: []string{"z"}, ReferredTable: "t2", ReferredColumns: []string{"r"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("\ngot %v\nwanted %v", got, want)
	}
}

func TestGroupForeignKeysEmpty(t *testing.T) {
	if got := groupForeignKeys(nil); got != nil {
		t.Errorf("\ngot %v from no rows, wanted nil", got)
	}
}
