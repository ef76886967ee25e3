// Package ship implements the ship sheet mutation rules: design-part
// selection with stakes accounting, derived ratings, undercrew tracks,
// two-state damage boxes, and the journey clocks. Mutations follow the
// same load, apply, save, publish flow as character operations.
package ship

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/driftcrew/wildsea-api/internal/catalog"
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	shiprepo "github.com/driftcrew/wildsea-api/internal/repositories/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// Service orchestrates ship operations.
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	SetName(ctx context.Context, input *SetNameInput) (*SetNameOutput, error)
	SetCrewSize(ctx context.Context, input *SetCrewSizeInput) (*SetCrewSizeOutput, error)
	SetAdditionalStakes(ctx context.Context, input *SetAdditionalStakesInput) (*SetAdditionalStakesOutput, error)

	SelectPart(ctx context.Context, input *SelectPartInput) (*SelectPartOutput, error)
	SelectFitting(ctx context.Context, input *SelectFittingInput) (*SelectFittingOutput, error)
	SelectUndercrew(ctx context.Context, input *SelectUndercrewInput) (*SelectUndercrewOutput, error)

	CycleRatingDamage(ctx context.Context, input *CycleRatingDamageInput) (*CycleRatingDamageOutput, error)
	CycleUndercrewDamage(ctx context.Context, input *CycleUndercrewDamageInput) (*CycleUndercrewDamageOutput, error)

	ToggleJourneyActive(ctx context.Context, input *ToggleJourneyActiveInput) (*ToggleJourneyActiveOutput, error)
	SetJourneyName(ctx context.Context, input *SetJourneyNameInput) (*SetJourneyNameOutput, error)
	SetClockMax(ctx context.Context, input *SetClockMaxInput) (*SetClockMaxOutput, error)
	ToggleClockTick(ctx context.Context, input *ToggleClockTickInput) (*ToggleClockTickOutput, error)

	AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error)
	UpdateItem(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error)
	RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error)

	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	ValidateForPlay(ctx context.Context, input *ValidateForPlayInput) (*ValidateForPlayOutput, error)
	FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error)
	SetMode(ctx context.Context, input *SetModeInput) (*SetModeOutput, error)
}

// Orchestrator implements Service.
type Orchestrator struct {
	repo      shiprepo.Repository
	catalog   *catalog.Catalog
	publisher *sync.Publisher
	idGen     idGenerator
	itemIDGen idGenerator
}

type idGenerator interface {
	Generate() string
}

// Config contains the dependencies for an Orchestrator.
type Config struct {
	ShipRepo  shiprepo.Repository
	Catalog   *catalog.Catalog
	Publisher *sync.Publisher

	IDGenerator     idGenerator
	ItemIDGenerator idGenerator
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.ShipRepo == nil {
		vb.RequiredField("ShipRepo")
	}
	if cfg.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if cfg.Publisher == nil {
		vb.RequiredField("Publisher")
	}
	if cfg.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if cfg.ItemIDGenerator == nil {
		vb.RequiredField("ItemIDGenerator")
	}
	return vb.Build()
}

// New creates an Orchestrator.
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Orchestrator{
		repo:      cfg.ShipRepo,
		catalog:   cfg.Catalog,
		publisher: cfg.Publisher,
		idGen:     cfg.IDGenerator,
		itemIDGen: cfg.ItemIDGenerator,
	}, nil
}

// trackMarkerRe matches the "[N-Track]" marker embedded in undercrew
// names in reference data.
var trackMarkerRe = regexp.MustCompile(`\s*\[(\d+)-Track\]`)

// Create creates a blank ship in creation mode.
func (o *Orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	ship := wildsea.NewShip(o.idGen.Generate())
	ship.SessionID = input.SessionID
	ship.Name = input.Name

	created, err := o.repo.Create(ctx, shiprepo.CreateInput{Ship: ship})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ship")
	}

	o.publish(ctx, created.Ship, sync.EventCreated, input.ClientID)
	return &CreateOutput{Ship: created.Ship}, nil
}

// Get retrieves a ship with its derived ratings and stakes accounting.
func (o *Orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{
		Ship:         ship,
		Ratings:      ship.Ratings(),
		StakesSpent:  ship.StakesSpent(),
		StakesBudget: ship.StakesBudget(),
	}, nil
}

// List retrieves all ships in a session.
func (o *Orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session id is required")
	}

	out, err := o.repo.ListBySessionID(ctx, shiprepo.ListBySessionIDInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ships")
	}
	return &ListOutput{Ships: out.Ships}, nil
}

// Delete removes a ship and notifies the session.
func (o *Orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if _, err := o.repo.Delete(ctx, shiprepo.DeleteInput{ID: input.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete ship")
	}

	o.publish(ctx, ship, sync.EventDeleted, input.ClientID)
	return &DeleteOutput{}, nil
}

// SetName renames a ship.
func (o *Orchestrator) SetName(ctx context.Context, input *SetNameInput) (*SetNameOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	ship.Name = input.Name
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetNameOutput{Ship: ship}, nil
}

// SetCrewSize records how many crew the ship is being built for, which
// scales the stakes budget.
func (o *Orchestrator) SetCrewSize(ctx context.Context, input *SetCrewSizeInput) (*SetCrewSizeOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Size < 1 {
		return nil, errors.InvalidArgument("crew size must be at least 1")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	ship.AnticipatedCrewSize = input.Size
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetCrewSizeOutput{Ship: ship, StakesBudget: ship.StakesBudget()}, nil
}

// SetAdditionalStakes records extra stakes granted beyond the crew
// formula.
func (o *Orchestrator) SetAdditionalStakes(ctx context.Context, input *SetAdditionalStakesInput) (*SetAdditionalStakesOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Stakes < 0 {
		return nil, errors.InvalidArgument("additional stakes cannot be negative")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	ship.AdditionalStakes = input.Stakes
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetAdditionalStakesOutput{Ship: ship, StakesBudget: ship.StakesBudget()}, nil
}

// SelectPart selects a design part. Size and frame replace any previous
// choice; hull, bite, and engine toggle membership by name. Design only
// changes during creation and upgrade.
func (o *Orchestrator) SelectPart(ctx context.Context, input *SelectPartInput) (*SelectPartOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and part name are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !designMutable(ship) {
		return &SelectPartOutput{Ship: ship, Changed: false}, nil
	}

	def, err := o.catalog.Part(string(input.Category), input.Name)
	if err != nil {
		if errors.IsNotFound(err) {
			return &SelectPartOutput{Ship: ship, Changed: false}, nil
		}
		return nil, err
	}
	part := partFromDef(def)

	changed := false
	switch input.Category {
	case PartSize:
		if ship.Size == nil || ship.Size.Name != part.Name {
			ship.Size = &part
			changed = true
		}
	case PartFrame:
		if ship.Frame == nil || ship.Frame.Name != part.Name {
			ship.Frame = &part
			changed = true
		}
	case PartHull:
		changed = togglePart(&ship.Hull, part)
	case PartBite:
		changed = togglePart(&ship.Bite, part)
	case PartEngine:
		changed = togglePart(&ship.Engine, part)
	default:
		return nil, errors.InvalidArgumentf("unknown part category %q", input.Category)
	}

	if !changed {
		return &SelectPartOutput{Ship: ship, Changed: false}, nil
	}
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SelectPartOutput{Ship: ship, Changed: true}, nil
}

// SelectFitting toggles a fitting by name within its category list.
func (o *Orchestrator) SelectFitting(ctx context.Context, input *SelectFittingInput) (*SelectFittingOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and fitting name are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !designMutable(ship) {
		return &SelectFittingOutput{Ship: ship, Changed: false}, nil
	}

	var list *[]wildsea.Part
	switch input.Category {
	case FittingMotif:
		list = &ship.Motifs
	case FittingGeneral:
		list = &ship.GeneralAdditions
	case FittingBounteous:
		list = &ship.BounteousAdditions
	case FittingRoom:
		list = &ship.Rooms
	case FittingArmament:
		list = &ship.Armaments
	default:
		return nil, errors.InvalidArgumentf("unknown fitting category %q", input.Category)
	}

	def, err := o.catalog.Fitting(string(input.Category), input.Name)
	if err != nil {
		if errors.IsNotFound(err) {
			return &SelectFittingOutput{Ship: ship, Changed: false}, nil
		}
		return nil, err
	}

	if !togglePart(list, partFromDef(def)) {
		return &SelectFittingOutput{Ship: ship, Changed: false}, nil
	}
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SelectFittingOutput{Ship: ship, Changed: true}, nil
}

// SelectUndercrew toggles an undercrew member by name. On selection the
// "[N-Track]" marker is parsed out of the reference-data name into the
// member's track and stripped from the stored name; a name without the
// marker gets track 0.
func (o *Orchestrator) SelectUndercrew(ctx context.Context, input *SelectUndercrewInput) (*SelectUndercrewOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and member name are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !designMutable(ship) {
		return &SelectUndercrewOutput{Ship: ship, Changed: false}, nil
	}

	var list *[]wildsea.UndercrewMember
	switch input.Category {
	case UndercrewOfficer:
		list = &ship.Undercrew.Officers
	case UndercrewGang:
		list = &ship.Undercrew.Gangs
	case UndercrewPack:
		list = &ship.Undercrew.Packs
	default:
		return nil, errors.InvalidArgumentf("unknown undercrew category %q", input.Category)
	}

	cleanName, _ := parseTrackMarker(input.Name)

	// Deselect also drops the member's damage boxes.
	for i := range *list {
		if (*list)[i].Name == cleanName {
			*list = append((*list)[:i], (*list)[i+1:]...)
			delete(ship.UndercrewDamage, cleanName)
			if err := o.save(ctx, ship, input.ClientID); err != nil {
				return nil, err
			}
			return &SelectUndercrewOutput{Ship: ship, Changed: true}, nil
		}
	}

	def, err := o.catalog.UndercrewMember(string(input.Category), input.Name)
	if err != nil {
		if errors.IsNotFound(err) {
			return &SelectUndercrewOutput{Ship: ship, Changed: false}, nil
		}
		return nil, err
	}

	name, track := parseTrackMarker(def.Name)
	member := wildsea.UndercrewMember{
		Name:        name,
		Description: def.Description,
		Stakes:      def.Stakes,
		Track:       track,
	}
	for _, b := range def.Bonuses {
		member.Bonuses = append(member.Bonuses, wildsea.RatingBonus{Rating: b.Rating, Value: b.Value})
	}
	*list = append(*list, member)

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SelectUndercrewOutput{Ship: ship, Changed: true}, nil
}

// CycleRatingDamage flips one rating box between default and burned.
// The box array is lazily sized to the rating's current derived value.
func (o *Orchestrator) CycleRatingDamage(ctx context.Context, input *CycleRatingDamageInput) (*CycleRatingDamageOutput, error) {
	if input == nil || input.ID == "" || input.Rating == "" {
		return nil, errors.InvalidArgument("id and rating are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if ship.Mode != wildsea.ModePlay {
		return &CycleRatingDamageOutput{Ship: ship, Changed: false}, nil
	}

	value, ok := ship.Ratings()[input.Rating]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown rating %q", input.Rating)
	}

	boxes := resizeBoxes(ship.RatingDamage[input.Rating], value)
	if input.BoxIndex < 0 || input.BoxIndex >= len(boxes) {
		return nil, errors.InvalidArgumentf("box index %d out of range for rating of %d", input.BoxIndex, value)
	}
	boxes[input.BoxIndex] = flipBox(boxes[input.BoxIndex])
	ship.RatingDamage[input.Rating] = boxes

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &CycleRatingDamageOutput{Ship: ship, Changed: true}, nil
}

// CycleUndercrewDamage flips one box on a selected undercrew member's
// track. Members without a track have nothing to damage.
func (o *Orchestrator) CycleUndercrewDamage(ctx context.Context, input *CycleUndercrewDamageInput) (*CycleUndercrewDamageOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and member name are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if ship.Mode != wildsea.ModePlay {
		return &CycleUndercrewDamageOutput{Ship: ship, Changed: false}, nil
	}

	var member *wildsea.UndercrewMember
	for _, m := range ship.Undercrew.All() {
		if m.Name == input.Name {
			member = &m
			break
		}
	}
	if member == nil {
		return &CycleUndercrewDamageOutput{Ship: ship, Changed: false}, nil
	}
	if member.Track == 0 {
		return &CycleUndercrewDamageOutput{Ship: ship, Changed: false}, nil
	}

	boxes := resizeBoxes(ship.UndercrewDamage[input.Name], member.Track)
	if input.BoxIndex < 0 || input.BoxIndex >= len(boxes) {
		return nil, errors.InvalidArgumentf("box index %d out of range for track of %d", input.BoxIndex, member.Track)
	}
	boxes[input.BoxIndex] = flipBox(boxes[input.BoxIndex])
	ship.UndercrewDamage[input.Name] = boxes

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &CycleUndercrewDamageOutput{Ship: ship, Changed: true}, nil
}

// ToggleJourneyActive starts or ends the current journey.
func (o *Orchestrator) ToggleJourneyActive(ctx context.Context, input *ToggleJourneyActiveInput) (*ToggleJourneyActiveOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	ship.Journey.Active = !ship.Journey.Active
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &ToggleJourneyActiveOutput{Ship: ship}, nil
}

// SetJourneyName names the current journey.
func (o *Orchestrator) SetJourneyName(ctx context.Context, input *SetJourneyNameInput) (*SetJourneyNameOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	ship.Journey.Name = input.Name
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetJourneyNameOutput{Ship: ship}, nil
}

// SetClockMax resizes a journey clock, clamped to [1, 6]. Shrinking
// clips the fill down to the new max.
func (o *Orchestrator) SetClockMax(ctx context.Context, input *SetClockMaxInput) (*SetClockMaxOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	clock := ship.Journey.Clocks.ClockByKind(input.Clock)
	if clock == nil {
		return nil, errors.InvalidArgumentf("unknown clock %q", input.Clock)
	}

	next := input.Max
	if next < wildsea.MinClockMax {
		next = wildsea.MinClockMax
	}
	if next > wildsea.MaxClockMax {
		next = wildsea.MaxClockMax
	}
	clock.Max = next
	if clock.Filled > next {
		clock.Filled = next
	}

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetClockMaxOutput{Ship: ship}, nil
}

// ToggleClockTick drags a clock's fill to a tick: clicking a tick at or
// before the current fill retracts the fill to that index, clicking
// past it extends the fill through that index.
func (o *Orchestrator) ToggleClockTick(ctx context.Context, input *ToggleClockTickInput) (*ToggleClockTickOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	clock := ship.Journey.Clocks.ClockByKind(input.Clock)
	if clock == nil {
		return nil, errors.InvalidArgumentf("unknown clock %q", input.Clock)
	}
	if input.Index < 0 || input.Index >= clock.Max {
		return nil, errors.InvalidArgumentf("tick index %d out of range for clock of %d", input.Index, clock.Max)
	}

	if input.Index < clock.Filled {
		clock.Filled = input.Index
	} else {
		clock.Filled = input.Index + 1
	}

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &ToggleClockTickOutput{Ship: ship}, nil
}

// AddItem appends a named entry to the cargo or passengers list.
func (o *Orchestrator) AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and name are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	list := itemList(ship, input.List)
	if list == nil {
		return nil, errors.InvalidArgumentf("unknown list %q", input.List)
	}

	item := wildsea.NamedItem{ID: o.itemIDGen.Generate(), Name: input.Name}
	*list = append(*list, item)

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &AddItemOutput{Ship: ship, Item: &(*list)[len(*list)-1]}, nil
}

// UpdateItem renames a cargo or passengers entry.
func (o *Orchestrator) UpdateItem(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error) {
	if input == nil || input.ID == "" || input.ItemID == "" {
		return nil, errors.InvalidArgument("id and item id are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	list := itemList(ship, input.List)
	if list == nil {
		return nil, errors.InvalidArgumentf("unknown list %q", input.List)
	}

	found := false
	for i := range *list {
		if (*list)[i].ID == input.ItemID {
			(*list)[i].Name = input.Name
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("item %q not found in %s", input.ItemID, input.List)
	}

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &UpdateItemOutput{Ship: ship}, nil
}

// RemoveItem deletes a cargo or passengers entry.
func (o *Orchestrator) RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error) {
	if input == nil || input.ID == "" || input.ItemID == "" {
		return nil, errors.InvalidArgument("id and item id are required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	list := itemList(ship, input.List)
	if list == nil {
		return nil, errors.InvalidArgumentf("unknown list %q", input.List)
	}

	found := false
	for i := range *list {
		if (*list)[i].ID == input.ItemID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("item %q not found in %s", input.ItemID, input.List)
	}

	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &RemoveItemOutput{Ship: ship}, nil
}

// ValidateForPlay runs the finalization gate: size, frame, and at least
// one hull, bite, and engine part. The stakes budget is reported as an
// advisory flag, never a failure.
func (o *Orchestrator) ValidateForPlay(ctx context.Context, input *ValidateForPlayInput) (*ValidateForPlayOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ValidateForPlayOutput{
		Failures:   designGateFailures(ship),
		OverBudget: ship.StakesSpent() > ship.StakesBudget(),
	}, nil
}

func designGateFailures(ship *wildsea.Ship) []string {
	failures := []string{}
	if ship.Size == nil {
		failures = append(failures, "a size must be selected")
	}
	if ship.Frame == nil {
		failures = append(failures, "a frame must be selected")
	}
	for _, req := range []struct {
		name  string
		parts []wildsea.Part
	}{
		{"hull", ship.Hull},
		{"bite", ship.Bite},
		{"engine", ship.Engine},
	} {
		if len(req.parts) == 0 {
			failures = append(failures, fmt.Sprintf("at least one %s part must be selected", req.name))
		}
	}
	return failures
}

// FinalizeCreation moves the ship from creation to play once every
// required part slot is filled. Overspending the stakes budget does not
// block sailing.
func (o *Orchestrator) FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if ship.Mode != wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("ship is not in creation mode")
	}

	if failures := designGateFailures(ship); len(failures) > 0 {
		return nil, errors.FailedPrecondition("ship is not ready to sail").
			WithMeta("failures", failures)
	}

	ship.Mode = wildsea.ModePlay
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &FinalizeCreationOutput{Ship: ship}, nil
}

// SetMode moves the ship between play and upgrade. Creation is only
// left through FinalizeCreation.
func (o *Orchestrator) SetMode(ctx context.Context, input *SetModeInput) (*SetModeOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Mode != wildsea.ModePlay && input.Mode != wildsea.ModeUpgrade {
		return nil, errors.InvalidArgumentf("cannot set mode %q directly", input.Mode)
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if ship.Mode == wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("ship has not finished creation")
	}
	if ship.Mode == input.Mode {
		return &SetModeOutput{Ship: ship}, nil
	}

	ship.Mode = input.Mode
	if err := o.save(ctx, ship, input.ClientID); err != nil {
		return nil, err
	}
	return &SetModeOutput{Ship: ship}, nil
}

func designMutable(ship *wildsea.Ship) bool {
	return ship.Mode == wildsea.ModeCreation || ship.Mode == wildsea.ModeUpgrade
}

func partFromDef(def *catalog.PartDef) wildsea.Part {
	part := wildsea.Part{
		Name:        def.Name,
		Description: def.Description,
		Stakes:      def.Stakes,
	}
	for _, b := range def.Bonuses {
		part.Bonuses = append(part.Bonuses, wildsea.RatingBonus{Rating: b.Rating, Value: b.Value})
	}
	return part
}

// togglePart removes the part when a same-named entry is present,
// otherwise appends it. Reports whether the list changed.
func togglePart(list *[]wildsea.Part, part wildsea.Part) bool {
	for i := range *list {
		if (*list)[i].Name == part.Name {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	*list = append(*list, part)
	return true
}

// parseTrackMarker extracts the "[N-Track]" marker from a member name,
// returning the cleaned name and the track size (0 without a marker).
func parseTrackMarker(name string) (string, int) {
	m := trackMarkerRe.FindStringSubmatch(name)
	if m == nil {
		return strings.TrimSpace(name), 0
	}
	track, _ := strconv.Atoi(m[1])
	clean := strings.TrimSpace(trackMarkerRe.ReplaceAllString(name, ""))
	return clean, track
}

// resizeBoxes sizes a damage-box array to the current derived length,
// preserving existing states where indexes overlap.
func resizeBoxes(boxes []wildsea.DamageState, size int) []wildsea.DamageState {
	if size < 0 {
		size = 0
	}
	resized := make([]wildsea.DamageState, size)
	for i := range resized {
		if i < len(boxes) {
			resized[i] = boxes[i]
		} else {
			resized[i] = wildsea.DamageDefault
		}
	}
	return resized
}

// flipBox cycles a two-state box: ratings and undercrew tracks burn or
// they don't, with no marked stage.
func flipBox(s wildsea.DamageState) wildsea.DamageState {
	if s == wildsea.DamageBurned {
		return wildsea.DamageDefault
	}
	return wildsea.DamageBurned
}

func itemList(ship *wildsea.Ship, name string) *[]wildsea.NamedItem {
	switch name {
	case "cargo":
		return &ship.Cargo
	case "passengers":
		return &ship.Passengers
	}
	return nil
}

func (o *Orchestrator) load(ctx context.Context, id string) (*wildsea.Ship, error) {
	out, err := o.repo.Get(ctx, shiprepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ship %s", id)
	}
	return out.Ship, nil
}

func (o *Orchestrator) save(ctx context.Context, ship *wildsea.Ship, clientID string) error {
	if _, err := o.repo.Update(ctx, shiprepo.UpdateInput{Ship: ship}); err != nil {
		return errors.Wrapf(err, "failed to update ship %s", ship.ID)
	}
	o.publish(ctx, ship, sync.EventUpdated, clientID)
	return nil
}

func (o *Orchestrator) publish(ctx context.Context, ship *wildsea.Ship, eventType sync.EventType, clientID string) {
	if ship.SessionID == "" {
		return
	}
	err := o.publisher.Publish(ctx, ship.SessionID, sync.Event{
		Type:     eventType,
		Kind:     sync.KindShip,
		EntityID: ship.ID,
		Origin:   clientID,
	})
	if err != nil {
		slog.DebugContext(ctx, "change event not delivered",
			"ship_id", ship.ID,
			"error", err.Error())
	}
}
