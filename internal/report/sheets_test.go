package report

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		year     int
		expected string
	}{
		{"plain base", "Relatórios", 2025, "2025 Relatórios"},
		{"already prefixed", "2024 Relatórios", 2025, "2024 Relatórios"},
		{"empty base", "", 2025, ""},
		{"short base", "R", 2025, "2025 R"},
		{"numbers but not a year", "1234x Report", 2025, "2025 1234x Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := yearPrefixedName(tt.base, tt.year)
			if got != tt.expected {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.expected)
			}
		})
	}
}

func TestSheetsSink_SheetNameFor(t *testing.T) {
	s := &SheetsSink{sheetBase: "Relatórios"}

	got, err := s.sheetNameFor("2025-06")
	if err != nil {
		t.Fatalf("sheetNameFor() error = %v", err)
	}
	if got != "2025 Relatórios" {
		t.Errorf("sheetNameFor(2025-06) = %q, want %q", got, "2025 Relatórios")
	}

	for _, bad := range []string{"", "abc", "20"} {
		if _, err := s.sheetNameFor(bad); err == nil {
			t.Errorf("sheetNameFor(%q) should fail", bad)
		}
	}
}
