package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(Params{})
	if p.Limit != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Fatalf("expected zero offset, got %d", p.Offset)
	}
}

func TestNormalizeClampsLimitAndOffset(t *testing.T) {
	p := Normalize(Params{Limit: 5000, Offset: -3})
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Fatalf("expected offset clamped to 0, got %d", p.Offset)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	p := Normalize(Params{Limit: 10, Offset: 40})
	if p.Limit != 10 || p.Offset != 40 {
		t.Fatalf("unexpected params %+v", p)
	}
}
