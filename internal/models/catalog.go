package models

import "sort"

// Catalog holds every static descriptor of the game.
// Structures and milestones keep declaration order; technologies are kept in
// canonical order (era ascending, then declaration order).
type Catalog struct {
	Structures   []*Structure
	Technologies []*Technology
	Milestones   []*Milestone
	Eras         []Era

	structures   map[StructureType]*Structure
	technologies map[TechID]*Technology
}

// NewCatalog indexes the descriptors and sorts technologies and eras
func NewCatalog(structures []*Structure, technologies []*Technology, milestones []*Milestone, eras []Era) *Catalog {
	c := &Catalog{
		Structures:   structures,
		Technologies: make([]*Technology, len(technologies)),
		Milestones:   milestones,
		Eras:         make([]Era, len(eras)),
		structures:   make(map[StructureType]*Structure, len(structures)),
		technologies: make(map[TechID]*Technology, len(technologies)),
	}

	copy(c.Technologies, technologies)
	sort.SliceStable(c.Technologies, func(i, j int) bool {
		return c.Technologies[i].Era < c.Technologies[j].Era
	})

	copy(c.Eras, eras)
	sort.SliceStable(c.Eras, func(i, j int) bool {
		return c.Eras[i].Number < c.Eras[j].Number
	})

	for _, s := range structures {
		c.structures[s.ID] = s
	}
	for _, t := range technologies {
		c.technologies[t.ID] = t
	}
	return c
}

// Structure returns the descriptor for a structure type
func (c *Catalog) Structure(id StructureType) (*Structure, bool) {
	s, ok := c.structures[id]
	return s, ok
}

// Technology returns the descriptor for a technology
func (c *Catalog) Technology(id TechID) (*Technology, bool) {
	t, ok := c.technologies[id]
	return t, ok
}

// EraName returns the display name of an era, or "" if unknown
func (c *Catalog) EraName(number int) string {
	for _, e := range c.Eras {
		if e.Number == number {
			return e.Name
		}
	}
	return ""
}
