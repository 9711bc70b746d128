package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpFlattensChainAndCode(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("dial tcp: refused"), "load parcel")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %q", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected unwrapped chain, got %v", d.Chain)
	}
	if d.PGHint != "" {
		t.Fatalf("non-postgres error must carry no hint, got %q", d.PGHint)
	}
}

func TestDumpClassifiesPostgresErrors(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "parcels_tracking_id_key",
		TableName:      "parcels",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeDependency, fmt.Errorf("insert parcel: %w", pgErr), "create parcel")

	d := Dump(err)
	if d.PGCode != "23505" {
		t.Fatalf("expected sqlstate kept, got %q", d.PGCode)
	}
	if d.PGConstraint != "parcels_tracking_id_key" {
		t.Fatalf("expected constraint name, got %q", d.PGConstraint)
	}
	if d.PGHint != "unique_violation" {
		t.Fatalf("expected unique_violation hint, got %q", d.PGHint)
	}
}

func TestDumpForeignKeyHint(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "payments_parcel_id_fkey"}

	d := Dump(fmt.Errorf("delete parcel: %w", pgErr))
	if d.PGHint != "foreign_key_violation" {
		t.Fatalf("expected foreign_key_violation hint, got %q", d.PGHint)
	}
}
