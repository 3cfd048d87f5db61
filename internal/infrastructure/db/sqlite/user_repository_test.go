package sqlite

import (
	"errors"
	"testing"

	sqlite3 "modernc.org/sqlite/lib"
)

func TestIsUniqueCode(t *testing.T) {
	cases := []struct {
		name string
		code int
		want bool
	}{
		{"unique", sqlite3.SQLITE_CONSTRAINT_UNIQUE, true},
		{"primary key", sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, true},
		{"generic constraint", sqlite3.SQLITE_CONSTRAINT, false},
		{"not null", sqlite3.SQLITE_CONSTRAINT_NOTNULL, false},
		{"check", sqlite3.SQLITE_CONSTRAINT_CHECK, false},
		{"busy", sqlite3.SQLITE_BUSY, false},
	}
	for _, tc := range cases {
		if got := isUniqueCode(tc.code); got != tc.want {
			t.Errorf("%s (code %d): got %v, want %v", tc.name, tc.code, got, tc.want)
		}
	}
}

func TestIsUniqueViolation_NonSqliteError(t *testing.T) {
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatalf("plain errors must not read as unique violations")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil must not read as a unique violation")
	}
}
