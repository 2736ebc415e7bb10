package uuid

import "testing"

func TestParseRoundTrip(t *testing.T) {
	id := NewUUID()
	parsed, err := Parse(id.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Errorf("round trip gave %s, want %s", parsed, id)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected an error for a malformed UUID")
	}
}

func TestScan(t *testing.T) {
	id := NewUUID()

	raw, err := id.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var fromBytes UUID
	if err := fromBytes.Scan(raw); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if fromBytes != id {
		t.Errorf("scanned %s, want %s", fromBytes, id)
	}

	var fromString UUID
	if err := fromString.Scan(id.String()); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if fromString != id {
		t.Errorf("scanned %s, want %s", fromString, id)
	}

	var u UUID
	if err := u.Scan(42); err == nil {
		t.Error("expected an error for an unsupported source type")
	}
}

func TestIsNil(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("the zero UUID should report nil")
	}
	if NewUUID().IsNil() {
		t.Error("a fresh UUID should never be nil")
	}
}
