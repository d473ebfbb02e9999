package database

import (
	"testing"
	"time"
)

func TestPgNumericRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 15.49, 45, 0.1, 1234567.891} {
		n := ToPgNumeric(f)
		if !n.Valid {
			t.Fatalf("ToPgNumeric(%v) invalid", f)
		}
		if got := PgNumericToFloat(n); got != f {
			t.Errorf("round trip %v = %v", f, got)
		}
	}
}

func TestToPgText(t *testing.T) {
	if ToPgText("  ").Valid {
		t.Error("blank text should be NULL")
	}
	if got := ToPgText(" a "); !got.Valid || got.String != "a" {
		t.Errorf("ToPgText() = %+v", got)
	}

	if PgTextPtr(ToPgTextPtr(nil)) != nil {
		t.Error("nil pointer should round trip to nil")
	}
	s := ""
	if p := PgTextPtr(ToPgTextPtr(&s)); p == nil || *p != "" {
		t.Error("empty string pointer should stay non-nil")
	}
}

func TestPgUUID(t *testing.T) {
	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if got := PgUUIDToString(ToPgUUID(id)); got != id {
		t.Errorf("round trip = %q", got)
	}
	if ToPgUUID("imported-1-2").Valid {
		t.Error("non-uuid should be invalid")
	}
}

func TestToInet(t *testing.T) {
	if got := InetString(ToInet("10.0.0.1")); got != "10.0.0.1" {
		t.Errorf("InetString = %q", got)
	}
	if ToInet("not-an-ip") != nil {
		t.Error("bad address should be NULL")
	}
}

func TestToPgTimestamptz(t *testing.T) {
	if ToPgTimestamptz(time.Time{}).Valid {
		t.Error("zero time should be NULL")
	}
}
