package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}

	if len(c.Structures) == 0 || len(c.Technologies) == 0 || len(c.Milestones) == 0 {
		t.Fatalf("Catalog is missing entries: %d structures, %d techs, %d milestones",
			len(c.Structures), len(c.Technologies), len(c.Milestones))
	}
	if len(c.Eras) != 4 {
		t.Errorf("Expected 4 eras, got %d", len(c.Eras))
	}

	victories := 0
	for _, m := range c.Milestones {
		if m.Victory {
			victories++
		}
	}
	if victories != 1 {
		t.Errorf("Expected exactly one victory milestone, got %d", victories)
	}

	sp, ok := c.Structure("solar_panel")
	if !ok {
		t.Fatal("solar_panel not found")
	}
	if sp.Cost != (models.Resources{Energy: 10, Materials: 10}) {
		t.Errorf("Unexpected solar_panel cost %+v", sp.Cost)
	}
	if sp.Production.Energy != 1 {
		t.Errorf("Expected solar_panel energy 1, got %v", sp.Production.Energy)
	}
}

func TestParseCatalogRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown prerequisite",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
technologies:
  - {id: a, era: 1, cost: 1, prerequisites: [missing]}
`,
			want: "unknown prerequisite missing",
		},
		{
			name: "cycle",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
technologies:
  - {id: a, era: 1, cost: 1, prerequisites: [b]}
  - {id: b, era: 1, cost: 1, prerequisites: [a]}
`,
			want: "prerequisite cycle",
		},
		{
			name: "unknown required technology",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
structures:
  - {id: s, era: 1, build_time: 1, requires: nope}
`,
			want: "unknown required technology nope",
		},
		{
			name: "unknown milestone structure",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
milestones:
  - {id: m, condition: {kind: structure_count, structure: ghost, threshold: 1}}
`,
			want: `unknown structure "ghost"`,
		},
		{
			name: "unknown field",
			yaml: `
eras: [{number: 1, name: One, threshold: 0, colour: red}]
`,
			want: "failed to parse catalog",
		},
		{
			name: "bad expression",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
milestones:
  - {id: m, condition: {kind: expression, expression: "energy >="}}
`,
			want: "invalid expression",
		},
		{
			name: "non-boolean expression",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
milestones:
  - {id: m, condition: {kind: expression, expression: "energy + 1"}}
`,
			want: "invalid expression",
		},
		{
			name: "technology era out of range",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}, {number: 2, name: Two, threshold: 0.5}]
technologies:
  - {id: a, era: 9, cost: 1}
`,
			want: "technology a: unknown era 9",
		},
		{
			name: "technology era zero",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
technologies:
  - {id: a, cost: 1}
`,
			want: "technology a: unknown era 0",
		},
		{
			name: "structure era out of range",
			yaml: `
eras: [{number: 1, name: One, threshold: 0}]
structures:
  - {id: s, era: 5, build_time: 1}
`,
			want: "structure s: unknown era 5",
		},
		{
			name: "no eras",
			yaml: `structures: []`,
			want: "no eras defined",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCycleErrorIsDeterministic(t *testing.T) {
	data := []byte(`
eras: [{number: 1, name: One, threshold: 0}]
technologies:
  - {id: root, era: 1, cost: 1}
  - {id: c, era: 1, cost: 1, prerequisites: [d]}
  - {id: d, era: 1, cost: 1, prerequisites: [e]}
  - {id: e, era: 1, cost: 1, prerequisites: [c]}
`)
	for i := 0; i < 20; i++ {
		_, err := ParseCatalog(data)
		if err == nil {
			t.Fatal("Expected an error")
		}
		if !strings.Contains(err.Error(), "technology c: prerequisite cycle") {
			t.Fatalf("Expected the cycle reported at c, got %v", err)
		}
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `
eras: [{number: 1, name: Only, threshold: 0}]
structures:
  - {id: hut, era: 1, build_time: 2, cost: {energy: 1}}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if _, ok := c.Structure("hut"); !ok {
		t.Error("hut not loaded")
	}
	if c.EraName(1) != "Only" {
		t.Errorf("Expected era name Only, got %q", c.EraName(1))
	}

	if _, err := LoadCatalog(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
