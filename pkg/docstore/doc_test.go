package docstore

import (
	"testing"
	"time"
)

func TestGetPath(t *testing.T) {
	d := Doc{
		"title": "clip",
		"owner": Doc{"avatar": Doc{"url": "http://img/a.png"}},
	}
	if GetPath(d, "title") != "clip" {
		t.Error("flat path")
	}
	if GetPath(d, "owner.avatar.url") != "http://img/a.png" {
		t.Error("nested path")
	}
	if GetPath(d, "owner.missing.url") != nil {
		t.Error("missing segment must yield nil")
	}
}

// TestCompare 排序比较对常见值域全序 缺失值排最前
func TestCompare(t *testing.T) {
	if Compare(int64(1), int64(2)) >= 0 {
		t.Error("int order")
	}
	if Compare(int64(5), float64(5.5)) >= 0 {
		t.Error("mixed numeric order")
	}
	if Compare("a", "b") >= 0 {
		t.Error("string order")
	}
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	if Compare(early, late) >= 0 {
		t.Error("time order")
	}
	if Compare(nil, int64(0)) >= 0 {
		t.Error("nil sorts first")
	}
	if Compare("x", "x") != 0 {
		t.Error("equal values compare as 0")
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.Hex())
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if parsed != id {
		t.Error("round trip must preserve the id")
	}
	if _, err := ParseID("short"); err == nil {
		t.Error("malformed hex must be rejected")
	}
}
