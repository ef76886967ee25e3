package ship

import (
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
)

// PartCategory names one of the five design-part slots.
type PartCategory string

const (
	PartSize   PartCategory = "size"
	PartFrame  PartCategory = "frame"
	PartHull   PartCategory = "hull"
	PartBite   PartCategory = "bite"
	PartEngine PartCategory = "engine"
)

// FittingCategory names one of the five fitting lists.
type FittingCategory string

const (
	FittingMotif     FittingCategory = "motif"
	FittingGeneral   FittingCategory = "general"
	FittingBounteous FittingCategory = "bounteous"
	FittingRoom      FittingCategory = "room"
	FittingArmament  FittingCategory = "armament"
)

// UndercrewCategory names one of the three undercrew lists.
type UndercrewCategory string

const (
	UndercrewOfficer UndercrewCategory = "officer"
	UndercrewGang    UndercrewCategory = "gang"
	UndercrewPack    UndercrewCategory = "pack"
)

// CreateInput defines the input for creating a ship.
type CreateInput struct {
	SessionID string
	Name      string
	ClientID  string
}

// CreateOutput defines the output for creating a ship.
type CreateOutput struct {
	Ship *wildsea.Ship
}

// GetInput defines the input for getting a ship.
type GetInput struct {
	ID string
}

// GetOutput carries the ship with its derived accounting, recomputed on
// every read.
type GetOutput struct {
	Ship         *wildsea.Ship
	Ratings      map[string]int
	StakesSpent  int
	StakesBudget int
}

// ListInput defines the input for listing a session's ships.
type ListInput struct {
	SessionID string
}

// ListOutput defines the output for listing a session's ships.
type ListOutput struct {
	Ships []*wildsea.Ship
}

// DeleteInput defines the input for deleting a ship.
type DeleteInput struct {
	ID       string
	ClientID string
}

// DeleteOutput defines the output for deleting a ship.
type DeleteOutput struct{}

// SetNameInput defines the input for renaming a ship.
type SetNameInput struct {
	ID       string
	Name     string
	ClientID string
}

// SetNameOutput defines the output for renaming a ship.
type SetNameOutput struct {
	Ship *wildsea.Ship
}

// SetCrewSizeInput defines the input for setting the anticipated crew
// size the stakes budget is derived from.
type SetCrewSizeInput struct {
	ID       string
	Size     int
	ClientID string
}

// SetCrewSizeOutput defines the output for setting the crew size.
type SetCrewSizeOutput struct {
	Ship         *wildsea.Ship
	StakesBudget int
}

// SetAdditionalStakesInput defines the input for granting extra stakes.
type SetAdditionalStakesInput struct {
	ID       string
	Stakes   int
	ClientID string
}

// SetAdditionalStakesOutput defines the output for granting extra stakes.
type SetAdditionalStakesOutput struct {
	Ship         *wildsea.Ship
	StakesBudget int
}

// SelectPartInput defines the input for selecting a design part. Size
// and frame are single-select replace-on-set; hull, bite, and engine
// toggle by name.
type SelectPartInput struct {
	ID       string
	Category PartCategory
	Name     string
	ClientID string
}

// SelectPartOutput defines the output for a part selection.
type SelectPartOutput struct {
	Ship    *wildsea.Ship
	Changed bool
}

// SelectFittingInput defines the input for toggling a fitting.
type SelectFittingInput struct {
	ID       string
	Category FittingCategory
	Name     string
	ClientID string
}

// SelectFittingOutput defines the output for a fitting toggle.
type SelectFittingOutput struct {
	Ship    *wildsea.Ship
	Changed bool
}

// SelectUndercrewInput defines the input for toggling an undercrew
// member.
type SelectUndercrewInput struct {
	ID       string
	Category UndercrewCategory
	Name     string
	ClientID string
}

// SelectUndercrewOutput defines the output for an undercrew toggle.
type SelectUndercrewOutput struct {
	Ship    *wildsea.Ship
	Changed bool
}

// CycleRatingDamageInput defines the input for flipping one rating
// damage box between default and burned.
type CycleRatingDamageInput struct {
	ID       string
	Rating   string
	BoxIndex int
	ClientID string
}

// CycleRatingDamageOutput defines the output for a rating damage flip.
type CycleRatingDamageOutput struct {
	Ship    *wildsea.Ship
	Changed bool
}

// CycleUndercrewDamageInput defines the input for flipping one
// undercrew damage box.
type CycleUndercrewDamageInput struct {
	ID       string
	Name     string
	BoxIndex int
	ClientID string
}

// CycleUndercrewDamageOutput defines the output for an undercrew damage
// flip.
type CycleUndercrewDamageOutput struct {
	Ship    *wildsea.Ship
	Changed bool
}

// ToggleJourneyActiveInput defines the input for starting or ending a
// journey.
type ToggleJourneyActiveInput struct {
	ID       string
	ClientID string
}

// ToggleJourneyActiveOutput defines the output for a journey toggle.
type ToggleJourneyActiveOutput struct {
	Ship *wildsea.Ship
}

// SetJourneyNameInput defines the input for naming the current journey.
type SetJourneyNameInput struct {
	ID       string
	Name     string
	ClientID string
}

// SetJourneyNameOutput defines the output for naming the journey.
type SetJourneyNameOutput struct {
	Ship *wildsea.Ship
}

// SetClockMaxInput defines the input for resizing a journey clock.
type SetClockMaxInput struct {
	ID       string
	Clock    string
	Max      int
	ClientID string
}

// SetClockMaxOutput defines the output for resizing a clock.
type SetClockMaxOutput struct {
	Ship *wildsea.Ship
}

// ToggleClockTickInput defines the input for dragging a clock's fill to
// a tick.
type ToggleClockTickInput struct {
	ID       string
	Clock    string
	Index    int
	ClientID string
}

// ToggleClockTickOutput defines the output for a clock tick.
type ToggleClockTickOutput struct {
	Ship *wildsea.Ship
}

// AddItemInput defines the input for adding a cargo or passenger entry.
type AddItemInput struct {
	ID       string
	List     string
	Name     string
	ClientID string
}

// AddItemOutput defines the output for adding a list entry.
type AddItemOutput struct {
	Ship *wildsea.Ship
	Item *wildsea.NamedItem
}

// UpdateItemInput defines the input for renaming a cargo or passenger
// entry.
type UpdateItemInput struct {
	ID       string
	List     string
	ItemID   string
	Name     string
	ClientID string
}

// UpdateItemOutput defines the output for renaming a list entry.
type UpdateItemOutput struct {
	Ship *wildsea.Ship
}

// RemoveItemInput defines the input for removing a cargo or passenger
// entry.
type RemoveItemInput struct {
	ID       string
	List     string
	ItemID   string
	ClientID string
}

// RemoveItemOutput defines the output for removing a list entry.
type RemoveItemOutput struct {
	Ship *wildsea.Ship
}

// ValidateForPlayInput defines the input for the creation-gate check.
type ValidateForPlayInput struct {
	ID string
}

// ValidateForPlayOutput lists the reasons the ship cannot yet sail.
// OverBudget is advisory and never blocks finalization.
type ValidateForPlayOutput struct {
	Failures   []string
	OverBudget bool
}

// FinalizeCreationInput defines the input for the creation → play
// transition.
type FinalizeCreationInput struct {
	ID       string
	ClientID string
}

// FinalizeCreationOutput defines the output for finalization.
type FinalizeCreationOutput struct {
	Ship *wildsea.Ship
}

// SetModeInput defines the input for moving between play and upgrade.
type SetModeInput struct {
	ID       string
	Mode     wildsea.Mode
	ClientID string
}

// SetModeOutput defines the output for a mode change.
type SetModeOutput struct {
	Ship *wildsea.Ship
}
