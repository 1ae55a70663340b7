package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// CatalogYAML represents the YAML structure of a catalog file
type CatalogYAML struct {
	Eras         []models.Era         `yaml:"eras"`
	Structures   []*models.Structure  `yaml:"structures"`
	Technologies []*models.Technology `yaml:"technologies"`
	Milestones   []*models.Milestone  `yaml:"milestones"`
}

// DefaultCatalog parses the catalog embedded in the binary
func DefaultCatalog() (*models.Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot recover
func MustDefaultCatalog() *models.Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog loads a catalog from path, or the embedded one if path is empty
func LoadCatalog(path string) (*models.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates catalog YAML
func ParseCatalog(data []byte) (*models.Catalog, error) {
	var raw CatalogYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return models.NewCatalog(raw.Structures, raw.Technologies, raw.Milestones, raw.Eras), nil
}

func validate(raw *CatalogYAML) error {
	var errs []error

	if len(raw.Eras) == 0 {
		errs = append(errs, errors.New("no eras defined"))
	}
	eraSeen := make(map[int]bool)
	for _, e := range raw.Eras {
		if e.Number < 1 {
			errs = append(errs, fmt.Errorf("era %d: number must be >= 1", e.Number))
		}
		if eraSeen[e.Number] {
			errs = append(errs, fmt.Errorf("era %d: duplicate", e.Number))
		}
		if e.Threshold < 0 || e.Threshold > 1 {
			errs = append(errs, fmt.Errorf("era %d: threshold %g outside [0,1]", e.Number, e.Threshold))
		}
		eraSeen[e.Number] = true
	}

	techs := make(map[models.TechID]*models.Technology, len(raw.Technologies))
	for i, t := range raw.Technologies {
		if t == nil || t.ID == "" {
			errs = append(errs, fmt.Errorf("technology #%d: missing id", i))
			continue
		}
		if _, dup := techs[t.ID]; dup {
			errs = append(errs, fmt.Errorf("technology %s: duplicate id", t.ID))
		}
		if t.Cost <= 0 {
			errs = append(errs, fmt.Errorf("technology %s: cost must be positive", t.ID))
		}
		if !eraSeen[t.Era] {
			errs = append(errs, fmt.Errorf("technology %s: unknown era %d", t.ID, t.Era))
		}
		if t.Effects.ResearchSlots < 0 {
			errs = append(errs, fmt.Errorf("technology %s: negative research slots", t.ID))
		}
		techs[t.ID] = t
	}
	for _, t := range raw.Technologies {
		if t == nil {
			continue
		}
		for _, p := range t.Prerequisites {
			if _, ok := techs[p]; !ok {
				errs = append(errs, fmt.Errorf("technology %s: unknown prerequisite %s", t.ID, p))
			}
		}
	}
	if id, ok := findCycle(raw.Technologies, techs); ok {
		errs = append(errs, fmt.Errorf("technology %s: prerequisite cycle", id))
	}

	structures := make(map[models.StructureType]bool, len(raw.Structures))
	for i, s := range raw.Structures {
		if s == nil || s.ID == "" {
			errs = append(errs, fmt.Errorf("structure #%d: missing id", i))
			continue
		}
		if structures[s.ID] {
			errs = append(errs, fmt.Errorf("structure %s: duplicate id", s.ID))
		}
		structures[s.ID] = true
		if !eraSeen[s.Era] {
			errs = append(errs, fmt.Errorf("structure %s: unknown era %d", s.ID, s.Era))
		}
		if s.BuildTimeSeconds <= 0 {
			errs = append(errs, fmt.Errorf("structure %s: build time must be positive", s.ID))
		}
		if s.Limit < 0 {
			errs = append(errs, fmt.Errorf("structure %s: negative limit", s.ID))
		}
		if s.Cost.Energy < 0 || s.Cost.Materials < 0 || s.Cost.Research < 0 {
			errs = append(errs, fmt.Errorf("structure %s: negative cost", s.ID))
		}
		if s.RequiredTech != "" {
			if _, ok := techs[s.RequiredTech]; !ok {
				errs = append(errs, fmt.Errorf("structure %s: unknown required technology %s", s.ID, s.RequiredTech))
			}
		}
	}

	milestones := make(map[models.MilestoneID]bool, len(raw.Milestones))
	for i, m := range raw.Milestones {
		if m == nil || m.ID == "" {
			errs = append(errs, fmt.Errorf("milestone #%d: missing id", i))
			continue
		}
		if milestones[m.ID] {
			errs = append(errs, fmt.Errorf("milestone %s: duplicate id", m.ID))
		}
		milestones[m.ID] = true
		if err := validateCondition(m.Condition, structures); err != nil {
			errs = append(errs, fmt.Errorf("milestone %s: %w", m.ID, err))
		}
	}

	return errors.Join(errs...)
}

func validateCondition(c models.Condition, structures map[models.StructureType]bool) error {
	switch c.Kind {
	case models.ConditionStructureCount:
		if !structures[c.Structure] {
			return fmt.Errorf("unknown structure %q", c.Structure)
		}
	case models.ConditionTotalStructures, models.ConditionSolarCapture,
		models.ConditionResearchCount, models.ConditionEra, models.ConditionResearchAll:
	case models.ConditionExpression:
		if c.Expression == "" {
			return errors.New("empty expression")
		}
		if _, err := models.CompileCondition(c.Expression); err != nil {
			return fmt.Errorf("invalid expression: %w", err)
		}
	default:
		return fmt.Errorf("unknown condition kind %q", c.Kind)
	}
	return nil
}

// findCycle reports the first technology, in declaration order, from which a
// prerequisite cycle is reachable
func findCycle(order []*models.Technology, techs map[models.TechID]*models.Technology) (models.TechID, bool) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[models.TechID]int, len(techs))

	var visit func(id models.TechID) bool
	visit = func(id models.TechID) bool {
		switch state[id] {
		case visiting:
			return true
		case done:
			return false
		}
		state[id] = visiting
		if t, ok := techs[id]; ok {
			for _, p := range t.Prerequisites {
				if visit(p) {
					return true
				}
			}
		}
		state[id] = done
		return false
	}

	for _, t := range order {
		if t == nil {
			continue
		}
		if visit(t.ID) {
			return t.ID, true
		}
	}
	return "", false
}
