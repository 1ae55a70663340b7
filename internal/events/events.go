package events

import (
	"time"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Kind represents the type of an outbound notification
type Kind int

const (
	ResourceChange Kind = iota
	ProductionUpdate
	StructureBuilt
	ConstructionStart
	ConstructionProgress
	ConstructionComplete
	ConstructionCancel
	ResearchStart
	ResearchProgress
	ResearchComplete
	ResearchCancel
	MilestoneClaimed
	EraChange
	SolarCapture
	GameVictory
	OfflineProgress
	Notification
	GameReset
)

var kindNames = [...]string{
	ResourceChange:       "resource:change",
	ProductionUpdate:     "production:update",
	StructureBuilt:       "structure:built",
	ConstructionStart:    "construction:start",
	ConstructionProgress: "construction:progress",
	ConstructionComplete: "construction:complete",
	ConstructionCancel:   "construction:cancel",
	ResearchStart:        "research:start",
	ResearchProgress:     "research:progress",
	ResearchComplete:     "research:complete",
	ResearchCancel:       "research:cancel",
	MilestoneClaimed:     "milestone:claimed",
	EraChange:            "era:change",
	SolarCapture:         "solar:capture",
	GameVictory:          "game:victory",
	OfflineProgress:      "offline:progress",
	Notification:         "notification",
	GameReset:            "game:reset",
}

// String returns the wire name of the event kind
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// AllKinds returns every event kind in declaration order
func AllKinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind returns the kind for a wire name
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Event is a named notification with its payload
type Event struct {
	Kind    Kind
	Payload any
}

// ResourceChanged is the payload of ResourceChange
type ResourceChanged struct {
	Resource models.ResourceType
	Amount   float64 // new total
	Delta    float64
}

// ProductionUpdated is the payload of ProductionUpdate
type ProductionUpdated struct {
	Snapshot models.ProductionSnapshot
}

// StructureCompleted is the payload of StructureBuilt
type StructureCompleted struct {
	Structure models.StructureType
	Count     int
	Placement string
}

// ConstructionStarted is the payload of ConstructionStart
type ConstructionStarted struct {
	ItemID      string
	Structure   models.StructureType
	BuildTime   float64
	QueueLength int
}

// ConstructionProgressed is the payload of ConstructionProgress
type ConstructionProgressed struct {
	ItemID    string
	Structure models.StructureType
	Progress  float64
	BuildTime float64
}

// Fraction returns progress as a value in [0,1]
func (p ConstructionProgressed) Fraction() float64 {
	if p.BuildTime <= 0 {
		return 1
	}
	return min(p.Progress/p.BuildTime, 1)
}

// ConstructionCompleted is the payload of ConstructionComplete
type ConstructionCompleted struct {
	ItemID    string
	Structure models.StructureType
	Auto      bool // completed by auto-construction
}

// ConstructionCancelled is the payload of ConstructionCancel
type ConstructionCancelled struct {
	ItemID    string
	Structure models.StructureType
	Index     int
	Refund    models.Resources
}

// ResearchStarted is the payload of ResearchStart
type ResearchStarted struct {
	Tech      models.TechID
	SlotsUsed int
	MaxSlots  int
	Auto      bool
}

// ResearchProgressed is the payload of ResearchProgress
type ResearchProgressed struct {
	Tech     models.TechID
	Progress float64
	Cost     float64
}

// ResearchCompleted is the payload of ResearchComplete
type ResearchCompleted struct {
	Tech         models.TechID
	Unlocks      []string
	SlotsGranted int
}

// ResearchCancelled is the payload of ResearchCancel
type ResearchCancelled struct {
	Tech              models.TechID
	DiscardedProgress float64
}

// Milestone is the payload of MilestoneClaimed
type Milestone struct {
	ID      models.MilestoneID
	Name    string
	Reward  models.Reward
	Victory bool
}

// EraChanged is the payload of EraChange
type EraChanged struct {
	From int
	To   int
	Name string
}

// SolarCaptureChanged is the payload of SolarCapture
type SolarCaptureChanged struct {
	Previous float64
	Current  float64
}

// Victory is the payload of GameVictory
type Victory struct {
	Milestone models.MilestoneID
}

// OfflineReport is the payload of OfflineProgress
type OfflineReport struct {
	OfflineSeconds   float64
	EffectiveSeconds float64
	Gains            models.Resources
	WasCapped        bool
}

// Severity of a user-facing notice
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is the payload of Notification
type Notice struct {
	Severity Severity
	Title    string
	Body     string
	Icon     string
	Duration time.Duration
}
