// Package wildsea defines the character, ship, and session entities and
// their pure derivations. Mutation rules live in the orchestrators; the
// types here carry persisted state plus derivations that must be
// recomputed on every call rather than cached.
package wildsea

import (
	"github.com/driftcrew/wildsea-api/internal/rules/damagetype"
)

// Character is a player character sheet.
type Character struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId,omitempty"`
	Mode      Mode   `json:"mode"`

	Name      string `json:"name"`
	Bloodline string `json:"bloodline"`
	Origin    string `json:"origin"`
	Post      string `json:"post"`

	SelectedAspects []Aspect `json:"selectedAspects"`
	SelectedEdges   []string `json:"selectedEdges"`

	// Skills and Languages are sparse: rank 0 entries are removed, not
	// stored as 0.
	Skills    map[string]int `json:"skills"`
	Languages map[string]int `json:"languages"`

	Milestones []Milestone `json:"milestones"`

	Drives [DriveSlots]string `json:"drives"`
	Mires  [MireSlots]Mire    `json:"mires"`

	Resources Resources `json:"resources"`
	Tasks     []Task    `json:"tasks"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Aspect is a selected character ability with a damage track. Its ID is
// derived from source and name so that deselecting and reselecting the
// same aspect restores the same identity.
type Aspect struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	Category    SourceCategory `json:"category"`

	// Track is the original size from reference data; TrackSize is the
	// current size, grown or shrunk one unit at a time in advancement
	// mode within [Track, MaxTrackSize]. DamageStates always has
	// exactly TrackSize entries.
	Track        int           `json:"track"`
	TrackSize    int           `json:"trackSize"`
	DamageStates []DamageState `json:"damageStates"`

	DamageTypes         []damagetype.Grant               `json:"damageTypes,omitempty"`
	SelectedDamageTypes map[damagetype.Category][]string `json:"selectedDamageTypes,omitempty"`
}

// AspectID derives the stable aspect instance id.
func AspectID(source, name string) string {
	return source + "-" + name
}

// Milestone is a progression marker earned in play.
type Milestone struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Scale MilestoneScale `json:"scale"`
	Used  bool           `json:"used"`
}

// Mire is a lingering fear or doubt with two independent mark boxes.
type Mire struct {
	Text  string  `json:"text"`
	Marks [2]bool `json:"marks"`
}

// NamedItem is a generic identified list entry (resources, cargo,
// passengers).
type NamedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resources holds the four resource buckets.
type Resources struct {
	Charts    []NamedItem `json:"charts"`
	Salvage   []NamedItem `json:"salvage"`
	Specimens []NamedItem `json:"specimens"`
	Whispers  []NamedItem `json:"whispers"`
}

// Total counts items across all buckets.
func (r Resources) Total() int {
	return len(r.Charts) + len(r.Salvage) + len(r.Specimens) + len(r.Whispers)
}

// Bucket returns the named bucket, or nil for an unknown name.
func (r *Resources) Bucket(name string) *[]NamedItem {
	switch name {
	case "charts":
		return &r.Charts
	case "salvage":
		return &r.Salvage
	case "specimens":
		return &r.Specimens
	case "whispers":
		return &r.Whispers
	}
	return nil
}

// Task is a multi-tick undertaking. Ticks advance cyclically and wrap
// modulo MaxTicks+1 so the count never exceeds the max.
type Task struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentTicks int    `json:"currentTicks"`
	MaxTicks     int    `json:"maxTicks"`
	Editing      bool   `json:"editing"`
}

// NewCharacter returns a blank character in creation mode with the
// baseline language seeded.
func NewCharacter(id string) *Character {
	return &Character{
		ID:              id,
		Mode:            ModeCreation,
		SelectedAspects: []Aspect{},
		SelectedEdges:   []string{},
		Skills:          map[string]int{},
		Languages:       map[string]int{BaselineLanguage: BaselineLanguageRank},
		Milestones:      []Milestone{},
		Tasks:           []Task{},
	}
}

// AspectByID finds a selected aspect, or nil.
func (c *Character) AspectByID(id string) *Aspect {
	for i := range c.SelectedAspects {
		if c.SelectedAspects[i].ID == id {
			return &c.SelectedAspects[i]
		}
	}
	return nil
}

// HasEdge reports whether the named edge is selected.
func (c *Character) HasEdge(name string) bool {
	for _, e := range c.SelectedEdges {
		if e == name {
			return true
		}
	}
	return false
}

// SkillPointsSpent sums skill and language ranks against the creation
// budget. The baseline language is exempt.
func (c *Character) SkillPointsSpent() int {
	total := 0
	for _, rank := range c.Skills {
		total += rank
	}
	for name, rank := range c.Languages {
		if name == BaselineLanguage {
			continue
		}
		total += rank
	}
	return total
}

// RankCap is the maximum skill or language rank for the character's
// current mode.
func (c *Character) RankCap() int {
	if c.Mode == ModeCreation {
		return CreationRankCap
	}
	return RankCap
}

// Defenses aggregates resistance and immunity across selected aspects,
// promoting types resisted by two or more distinct aspects to immune.
func (c *Character) Defenses() map[string]damagetype.DefenseLevel {
	contributions := make([]damagetype.AspectGrants, 0, len(c.SelectedAspects))
	for _, a := range c.SelectedAspects {
		if a.DamageTypes == nil {
			continue
		}
		contributions = append(contributions, damagetype.AspectGrants{
			Grants: a.DamageTypes,
			Chosen: a.SelectedDamageTypes,
		})
	}
	return damagetype.Defenses(contributions)
}
