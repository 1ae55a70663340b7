package snapshot

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the schema version written by this build
const Version = 2

// Snapshot is the persisted shape of a session. Keys missing from a decoded
// document keep the values of the base snapshot they are merged onto.
type Snapshot struct {
	Version int `json:"version"`

	Resources  map[string]float64 `json:"resources"`
	Structures map[string]int     `json:"structures"`

	ConstructionQueue        []ConstructionEntry `json:"constructionQueue"`
	AutoConstructionProgress float64             `json:"autoConstructionProgress"`

	CompletedResearch []string        `json:"completedResearch"`
	ResearchQueue     []ResearchEntry `json:"researchQueue"`
	MaxResearchSlots  int             `json:"maxResearchSlots"`
	AutoResearch      bool            `json:"autoResearch"`

	ClaimedMilestones []string `json:"claimedMilestones"`
	CurrentEra        int      `json:"currentEra"`
	SolarCapture      float64  `json:"solarCapture"`
	Sandbox           bool     `json:"sandbox"`
	Victory           bool     `json:"victory"`

	Stats     Stats     `json:"stats"`
	LastSaved time.Time `json:"lastSaved"`

	// Single-slot research from version 1 saves, see Upgrade
	CurrentResearch  string  `json:"currentResearch,omitempty"`
	ResearchProgress float64 `json:"researchProgress,omitempty"`
}

type ConstructionEntry struct {
	ID        string             `json:"id"`
	Structure string             `json:"structureType"`
	BuildTime float64            `json:"buildTime"`
	Progress  float64            `json:"progress"`
	Placement string             `json:"placement,omitempty"`
	Cost      map[string]float64 `json:"cost,omitempty"`
}

type ResearchEntry struct {
	Tech     string  `json:"id"`
	Progress float64 `json:"progress"`
}

type Stats struct {
	TotalProduced     map[string]float64 `json:"totalProduced"`
	StructuresBuilt   int                `json:"structuresBuilt"`
	ResearchCompleted int                `json:"researchCompleted"`
	MilestonesClaimed int                `json:"milestonesClaimed"`
	PlayTimeSeconds   float64            `json:"playTime"`
	OfflineSeconds    float64            `json:"offlineTime"`
}

// HasTimestamp reports whether the snapshot records when it was saved
func (s *Snapshot) HasTimestamp() bool {
	return !s.LastSaved.IsZero()
}

// Upgrade moves the legacy single-slot research fields into the research
// queue. It reports whether anything changed.
func (s *Snapshot) Upgrade() bool {
	changed := false
	if s.CurrentResearch != "" {
		queued := false
		for _, e := range s.ResearchQueue {
			if e.Tech == s.CurrentResearch {
				queued = true
				break
			}
		}
		if !queued {
			s.ResearchQueue = append([]ResearchEntry{{Tech: s.CurrentResearch, Progress: s.ResearchProgress}}, s.ResearchQueue...)
		}
		s.CurrentResearch = ""
		s.ResearchProgress = 0
		changed = true
	}
	if s.MaxResearchSlots < 1 {
		s.MaxResearchSlots = 1
		changed = true
	}
	if s.Version < Version {
		s.Version = Version
		changed = true
	}
	return changed
}

// Clone returns a deep copy
func (s *Snapshot) Clone() *Snapshot {
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("snapshot: clone: %v", err))
	}
	out := &Snapshot{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("snapshot: clone: %v", err))
	}
	return out
}
