package game

import (
	"log/slog"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/logging"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// ConstructionItem is one entry of the construction queue
type ConstructionItem struct {
	ID        string
	Structure models.StructureType
	BuildTime float64 // seconds at build speed 1
	Progress  float64
	Placement string
	Cost      models.Resources // as paid, used for refunds
}

// ResearchItem is a technology in progress
type ResearchItem struct {
	Tech     models.TechID
	Progress float64 // research points
}

// Stats are cumulative counters over the whole save
type Stats struct {
	TotalProduced     models.Resources
	StructuresBuilt   int
	ResearchCompleted int
	MilestonesClaimed int
	PlayTimeSeconds   float64
	OfflineSeconds    float64 // effective seconds credited
}

// State is the canonical mutable game state
type State struct {
	Resources models.Resources

	Structures               map[models.StructureType]int
	Construction             []*ConstructionItem
	AutoConstructionProgress float64

	CompletedTech    map[models.TechID]bool
	Research         []*ResearchItem
	MaxResearchSlots int
	AutoResearch     bool

	ClaimedMilestones map[models.MilestoneID]bool
	Era               int
	SolarCapture      float64

	// Derived, recomputed from structures and technologies
	Production models.ProductionSnapshot

	Stats   Stats
	Sandbox bool
	Victory bool
}

// NewState creates the state of a fresh session
func NewState(cfg config.GameConfig) *State {
	return &State{
		Resources:         cfg.StartingResources,
		Structures:        make(map[models.StructureType]int),
		Construction:      make([]*ConstructionItem, 0),
		CompletedTech:     make(map[models.TechID]bool),
		Research:          make([]*ResearchItem, 0),
		MaxResearchSlots:  max(cfg.StartingResearchSlots, 1),
		AutoResearch:      cfg.AutoResearch,
		ClaimedMilestones: make(map[models.MilestoneID]bool),
		Era:               1,
	}
}

// TotalStructures returns the number of built structures of every type
func (s *State) TotalStructures() int {
	total := 0
	for _, n := range s.Structures {
		total += n
	}
	return total
}

// QueuedCount returns how many items of a structure type wait in the construction queue
func (s *State) QueuedCount(id models.StructureType) int {
	n := 0
	for _, item := range s.Construction {
		if item.Structure == id {
			n++
		}
	}
	return n
}

// ResearchIndex returns the queue position of a technology, or -1
func (s *State) ResearchIndex(id models.TechID) int {
	for i, item := range s.Research {
		if item.Tech == id {
			return i
		}
	}
	return -1
}

// Store owns the state and the collaborators every component shares
type Store struct {
	State   *State
	Catalog *models.Catalog
	Bus     *events.Bus
	Config  config.GameConfig

	calc   *Calculator
	logger *slog.Logger
}

// NewStore creates a store holding a fresh state and computes its production
func NewStore(catalog *models.Catalog, cfg config.GameConfig, bus *events.Bus, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	if bus == nil {
		bus = events.NewBus(logger)
	}
	s := &Store{
		State:   NewState(cfg),
		Catalog: catalog,
		Bus:     bus,
		Config:  cfg,
		calc:    NewCalculator(catalog, cfg),
		logger:  logger,
	}
	s.State.Production = s.calc.Compute(s.State.Structures, s.State.CompletedTech)
	s.State.SolarCapture = s.State.Production.SolarCaptureContribution
	return s
}

// Recompute replaces the production snapshot with a full recompute
func (s *Store) Recompute() {
	snap := s.calc.Compute(s.State.Structures, s.State.CompletedTech)
	s.State.Production = snap

	prev := s.State.SolarCapture
	if snap.SolarCaptureContribution != prev {
		s.State.SolarCapture = snap.SolarCaptureContribution
		s.Bus.Emit(events.SolarCapture, events.SolarCaptureChanged{Previous: prev, Current: snap.SolarCaptureContribution})
	}
	s.Bus.Emit(events.ProductionUpdate, events.ProductionUpdated{Snapshot: snap})
}
