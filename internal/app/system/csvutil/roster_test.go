package csvutil

import (
	"strings"
	"testing"
	"time"
)

func TestWriteRoster(t *testing.T) {
	var b strings.Builder
	rows := []RosterRow{
		{Name: "Ana Silva", Email: "ana@example.com", JoinedAt: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)},
		{Name: "João, o Pai", Email: "joao@example.com"},
	}

	if err := WriteRoster(&b, rows); err != nil {
		t.Fatalf("WriteRoster failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), b.String())
	}
	if lines[0] != "Name,Email,Joined" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-09") {
		t.Errorf("expected joined date in row, got %q", lines[1])
	}
	// A name containing a comma must come back quoted.
	if !strings.Contains(lines[2], `"João, o Pai"`) {
		t.Errorf("expected quoted name, got %q", lines[2])
	}
	// Zero time leaves the column empty.
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("expected empty joined column, got %q", lines[2])
	}
}

func TestWriteRoster_Empty(t *testing.T) {
	var b strings.Builder
	if err := WriteRoster(&b, nil); err != nil {
		t.Fatalf("WriteRoster failed: %v", err)
	}
	if strings.TrimSpace(b.String()) != "Name,Email,Joined" {
		t.Errorf("expected header only, got %q", b.String())
	}
}
