package character

import (
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/rules/damagetype"
)

// TraitCategory names a core trait for UpdateCoreTrait.
type TraitCategory string

const (
	TraitBloodline TraitCategory = "bloodline"
	TraitOrigin    TraitCategory = "origin"
	TraitPost      TraitCategory = "post"
)

// CreateInput defines the input for creating a character.
type CreateInput struct {
	SessionID string
	Name      string
	ClientID  string
}

// CreateOutput defines the output for creating a character.
type CreateOutput struct {
	Character *wildsea.Character
}

// GetInput defines the input for getting a character.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character.
type GetOutput struct {
	Character *wildsea.Character

	// Defenses is the aggregated damage-type defense view derived from
	// the character's selected aspects.
	Defenses map[string]damagetype.DefenseLevel
}

// ListInput defines the input for listing a session's characters.
type ListInput struct {
	SessionID string
}

// ListOutput defines the output for listing a session's characters.
type ListOutput struct {
	Characters []*wildsea.Character
}

// DeleteInput defines the input for deleting a character.
type DeleteInput struct {
	ID       string
	ClientID string
}

// DeleteOutput defines the output for deleting a character.
type DeleteOutput struct{}

// SetNameInput defines the input for renaming a character.
type SetNameInput struct {
	ID       string
	Name     string
	ClientID string
}

// SetNameOutput defines the output for renaming a character.
type SetNameOutput struct {
	Character *wildsea.Character
}

// UpdateCoreTraitInput defines the input for setting bloodline, origin,
// or post.
type UpdateCoreTraitInput struct {
	ID       string
	Category TraitCategory
	Value    string
	ClientID string
}

// UpdateCoreTraitOutput defines the output for setting a core trait.
type UpdateCoreTraitOutput struct {
	Character *wildsea.Character

	// ClearedAspects reports how many selected aspects were invalidated
	// by the trait change.
	ClearedAspects int
}

// ToggleAspectInput defines the input for selecting or deselecting an
// aspect by its stable id.
type ToggleAspectInput struct {
	ID       string
	AspectID string
	ClientID string
}

// ToggleAspectOutput defines the output for an aspect toggle. Changed
// is false when the toggle silently no-opped (wrong mode, or the id no
// longer resolves against current traits).
type ToggleAspectOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// ToggleEdgeInput defines the input for selecting or deselecting an edge.
type ToggleEdgeInput struct {
	ID       string
	Edge     string
	ClientID string
}

// ToggleEdgeOutput defines the output for an edge toggle.
type ToggleEdgeOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// AdjustSkillInput defines the input for raising or lowering a skill rank.
type AdjustSkillInput struct {
	ID       string
	Skill    string
	Delta    int
	ClientID string
}

// AdjustSkillOutput defines the output for a skill adjustment. Changed
// is false when the adjustment no-opped against a clamp or the budget.
type AdjustSkillOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// AdjustLanguageInput defines the input for raising or lowering a
// language rank.
type AdjustLanguageInput struct {
	ID       string
	Language string
	Delta    int
	ClientID string
}

// AdjustLanguageOutput defines the output for a language adjustment.
type AdjustLanguageOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// CycleAspectDamageInput defines the input for advancing one track box
// through default → marked → burned → default.
type CycleAspectDamageInput struct {
	ID       string
	AspectID string
	BoxIndex int
	ClientID string
}

// CycleAspectDamageOutput defines the output for a damage cycle.
type CycleAspectDamageOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// ExpandAspectTrackInput defines the input for resizing an aspect track
// in advancement mode.
type ExpandAspectTrackInput struct {
	ID       string
	AspectID string
	Delta    int
	ClientID string
}

// ExpandAspectTrackOutput defines the output for a track resize.
type ExpandAspectTrackOutput struct {
	Character *wildsea.Character
	Changed   bool
}

// SelectAspectDamageTypesInput defines the input for recording the
// player's picks on a choose grant.
type SelectAspectDamageTypesInput struct {
	ID       string
	AspectID string
	Category damagetype.Category
	Types    []string
	ClientID string
}

// SelectAspectDamageTypesOutput defines the output for recording picks.
type SelectAspectDamageTypesOutput struct {
	Character *wildsea.Character
}

// AddMilestoneInput defines the input for adding a milestone.
type AddMilestoneInput struct {
	ID       string
	Name     string
	Scale    wildsea.MilestoneScale
	ClientID string
}

// AddMilestoneOutput defines the output for adding a milestone.
type AddMilestoneOutput struct {
	Character *wildsea.Character
	Milestone *wildsea.Milestone
}

// UpdateMilestoneInput defines the input for updating a milestone.
type UpdateMilestoneInput struct {
	ID          string
	MilestoneID string
	Name        *string
	Used        *bool
	ClientID    string
}

// UpdateMilestoneOutput defines the output for updating a milestone.
type UpdateMilestoneOutput struct {
	Character *wildsea.Character
}

// RemoveMilestoneInput defines the input for removing a milestone.
type RemoveMilestoneInput struct {
	ID          string
	MilestoneID string
	ClientID    string
}

// RemoveMilestoneOutput defines the output for removing a milestone.
type RemoveMilestoneOutput struct {
	Character *wildsea.Character
}

// SetDriveInput defines the input for setting one drive slot.
type SetDriveInput struct {
	ID       string
	Slot     int
	Text     string
	ClientID string
}

// SetDriveOutput defines the output for setting a drive.
type SetDriveOutput struct {
	Character *wildsea.Character
}

// SetMireInput defines the input for setting one mire slot's text.
type SetMireInput struct {
	ID       string
	Slot     int
	Text     string
	ClientID string
}

// SetMireOutput defines the output for setting a mire.
type SetMireOutput struct {
	Character *wildsea.Character
}

// ToggleMireMarkInput defines the input for flipping one of a mire's
// two mark boxes.
type ToggleMireMarkInput struct {
	ID       string
	Slot     int
	Mark     int
	ClientID string
}

// ToggleMireMarkOutput defines the output for flipping a mire mark.
type ToggleMireMarkOutput struct {
	Character *wildsea.Character
}

// AddResourceInput defines the input for adding a resource. The total
// soft cap is checked at validation time, not here.
type AddResourceInput struct {
	ID       string
	Bucket   string
	Name     string
	ClientID string
}

// AddResourceOutput defines the output for adding a resource.
type AddResourceOutput struct {
	Character *wildsea.Character
	Resource  *wildsea.NamedItem
}

// UpdateResourceInput defines the input for renaming a resource.
type UpdateResourceInput struct {
	ID         string
	Bucket     string
	ResourceID string
	Name       string
	ClientID   string
}

// UpdateResourceOutput defines the output for renaming a resource.
type UpdateResourceOutput struct {
	Character *wildsea.Character
}

// RemoveResourceInput defines the input for removing a resource.
type RemoveResourceInput struct {
	ID         string
	Bucket     string
	ResourceID string
	ClientID   string
}

// RemoveResourceOutput defines the output for removing a resource.
type RemoveResourceOutput struct {
	Character *wildsea.Character
}

// AddTaskInput defines the input for adding a task.
type AddTaskInput struct {
	ID       string
	Name     string
	MaxTicks int
	ClientID string
}

// AddTaskOutput defines the output for adding a task.
type AddTaskOutput struct {
	Character *wildsea.Character
	Task      *wildsea.Task
}

// TickTaskInput defines the input for advancing a task's tick counter.
type TickTaskInput struct {
	ID       string
	TaskID   string
	ClientID string
}

// TickTaskOutput defines the output for advancing a task.
type TickTaskOutput struct {
	Character *wildsea.Character
}

// UpdateTaskInput defines the input for editing a task.
type UpdateTaskInput struct {
	ID       string
	TaskID   string
	Name     *string
	MaxTicks *int
	Editing  *bool
	ClientID string
}

// UpdateTaskOutput defines the output for editing a task.
type UpdateTaskOutput struct {
	Character *wildsea.Character
}

// RemoveTaskInput defines the input for removing a task.
type RemoveTaskInput struct {
	ID       string
	TaskID   string
	ClientID string
}

// RemoveTaskOutput defines the output for removing a task.
type RemoveTaskOutput struct {
	Character *wildsea.Character
}

// GenerateRandomInput defines the input for rerolling a character from
// scratch.
type GenerateRandomInput struct {
	ID       string
	ClientID string
}

// GenerateRandomOutput defines the output for a random reroll.
type GenerateRandomOutput struct {
	Character *wildsea.Character
}

// ValidateForPlayInput defines the input for the creation-gate check.
type ValidateForPlayInput struct {
	ID string
}

// ValidateForPlayOutput lists the human-readable reasons the character
// cannot yet leave creation mode. Empty means the gate passes.
// OverResourceCap is advisory: resources past the soft cap are flagged
// here but never block finalization.
type ValidateForPlayOutput struct {
	Failures        []string
	OverResourceCap bool
}

// FinalizeCreationInput defines the input for the creation → play
// transition.
type FinalizeCreationInput struct {
	ID       string
	ClientID string
}

// FinalizeCreationOutput defines the output for finalization.
type FinalizeCreationOutput struct {
	Character *wildsea.Character
}

// SetModeInput defines the input for moving between play and
// advancement.
type SetModeInput struct {
	ID       string
	Mode     wildsea.Mode
	ClientID string
}

// SetModeOutput defines the output for a mode change.
type SetModeOutput struct {
	Character *wildsea.Character
}
