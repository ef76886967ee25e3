// Package character implements the character sheet mutation rules:
// creation budgets, aspect and track lifecycle, skill and language
// allocation, and play-mode bookkeeping. Every mutation loads the row,
// applies the rule, saves the whole row, and publishes a change event
// so other viewers of the session re-fetch.
package character

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/driftcrew/wildsea-api/internal/catalog"
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	"github.com/driftcrew/wildsea-api/internal/rules/damagetype"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// Service orchestrates character operations.
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	SetName(ctx context.Context, input *SetNameInput) (*SetNameOutput, error)
	UpdateCoreTrait(ctx context.Context, input *UpdateCoreTraitInput) (*UpdateCoreTraitOutput, error)
	ToggleAspect(ctx context.Context, input *ToggleAspectInput) (*ToggleAspectOutput, error)
	ToggleEdge(ctx context.Context, input *ToggleEdgeInput) (*ToggleEdgeOutput, error)
	AdjustSkill(ctx context.Context, input *AdjustSkillInput) (*AdjustSkillOutput, error)
	AdjustLanguage(ctx context.Context, input *AdjustLanguageInput) (*AdjustLanguageOutput, error)
	CycleAspectDamage(ctx context.Context, input *CycleAspectDamageInput) (*CycleAspectDamageOutput, error)
	ExpandAspectTrack(ctx context.Context, input *ExpandAspectTrackInput) (*ExpandAspectTrackOutput, error)
	SelectAspectDamageTypes(ctx context.Context, input *SelectAspectDamageTypesInput) (*SelectAspectDamageTypesOutput, error)

	AddMilestone(ctx context.Context, input *AddMilestoneInput) (*AddMilestoneOutput, error)
	UpdateMilestone(ctx context.Context, input *UpdateMilestoneInput) (*UpdateMilestoneOutput, error)
	RemoveMilestone(ctx context.Context, input *RemoveMilestoneInput) (*RemoveMilestoneOutput, error)

	SetDrive(ctx context.Context, input *SetDriveInput) (*SetDriveOutput, error)
	SetMire(ctx context.Context, input *SetMireInput) (*SetMireOutput, error)
	ToggleMireMark(ctx context.Context, input *ToggleMireMarkInput) (*ToggleMireMarkOutput, error)

	AddResource(ctx context.Context, input *AddResourceInput) (*AddResourceOutput, error)
	UpdateResource(ctx context.Context, input *UpdateResourceInput) (*UpdateResourceOutput, error)
	RemoveResource(ctx context.Context, input *RemoveResourceInput) (*RemoveResourceOutput, error)

	AddTask(ctx context.Context, input *AddTaskInput) (*AddTaskOutput, error)
	TickTask(ctx context.Context, input *TickTaskInput) (*TickTaskOutput, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error)
	RemoveTask(ctx context.Context, input *RemoveTaskInput) (*RemoveTaskOutput, error)

	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	GenerateRandom(ctx context.Context, input *GenerateRandomInput) (*GenerateRandomOutput, error)
	ValidateForPlay(ctx context.Context, input *ValidateForPlayInput) (*ValidateForPlayOutput, error)
	FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error)
	SetMode(ctx context.Context, input *SetModeInput) (*SetModeOutput, error)
}

// Orchestrator implements Service.
type Orchestrator struct {
	repo      characterrepo.Repository
	catalog   *catalog.Catalog
	publisher *sync.Publisher
	idGen     idGenerator
	itemIDGen idGenerator
	rng       *rand.Rand
}

type idGenerator interface {
	Generate() string
}

// Config contains the dependencies for an Orchestrator.
type Config struct {
	CharacterRepo characterrepo.Repository
	Catalog       *catalog.Catalog
	Publisher     *sync.Publisher

	// IDGenerator mints character ids; ItemIDGenerator mints ids for
	// nested rows (milestones, resources, tasks).
	IDGenerator     idGenerator
	ItemIDGenerator idGenerator

	// Rand is the randomness source for GenerateRandom. Optional; a
	// time-seeded source is used when nil.
	Rand *rand.Rand
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
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

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Orchestrator{
		repo:      cfg.CharacterRepo,
		catalog:   cfg.Catalog,
		publisher: cfg.Publisher,
		idGen:     cfg.IDGenerator,
		itemIDGen: cfg.ItemIDGenerator,
		rng:       rng,
	}, nil
}

// Create creates a blank character in creation mode.
func (o *Orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	char := wildsea.NewCharacter(o.idGen.Generate())
	char.SessionID = input.SessionID
	char.Name = input.Name

	created, err := o.repo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	o.publish(ctx, created.Character, sync.EventCreated, input.ClientID)
	return &CreateOutput{Character: created.Character}, nil
}

// Get retrieves a character together with its derived defense view.
func (o *Orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{
		Character: char,
		Defenses:  char.Defenses(),
	}, nil
}

// List retrieves all characters in a session.
func (o *Orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session id is required")
	}

	out, err := o.repo.ListBySessionID(ctx, characterrepo.ListBySessionIDInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	return &ListOutput{Characters: out.Characters}, nil
}

// Delete removes a character and notifies the session.
func (o *Orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	// Load first: the session id is needed for the event after the row
	// is gone.
	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if _, err := o.repo.Delete(ctx, characterrepo.DeleteInput{ID: input.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}

	o.publish(ctx, char, sync.EventDeleted, input.ClientID)
	return &DeleteOutput{}, nil
}

// SetName renames a character.
func (o *Orchestrator) SetName(ctx context.Context, input *SetNameInput) (*SetNameOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	char.Name = input.Name
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &SetNameOutput{Character: char}, nil
}

// UpdateCoreTrait sets bloodline, origin, or post. Aspects are keyed by
// source, so every selected aspect is cleared: selections drawn from
// the old value are no longer valid.
func (o *Orchestrator) UpdateCoreTrait(ctx context.Context, input *UpdateCoreTraitInput) (*UpdateCoreTraitOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	var pool []string
	switch input.Category {
	case TraitBloodline:
		pool = o.catalog.Bloodlines
	case TraitOrigin:
		pool = o.catalog.Origins
	case TraitPost:
		pool = o.catalog.Posts
	default:
		return nil, errors.InvalidArgumentf("unknown trait category %q", input.Category)
	}
	if !containsString(pool, input.Value) {
		return nil, errors.InvalidArgumentf("%s %q not found in reference data", input.Category, input.Value)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	switch input.Category {
	case TraitBloodline:
		char.Bloodline = input.Value
	case TraitOrigin:
		char.Origin = input.Value
	case TraitPost:
		char.Post = input.Value
	}

	cleared := len(char.SelectedAspects)
	char.SelectedAspects = []wildsea.Aspect{}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &UpdateCoreTraitOutput{Character: char, ClearedAspects: cleared}, nil
}

// ToggleAspect selects or deselects an aspect by id. Outside creation
// and advancement modes, and for ids that no longer resolve against
// the current traits, it is a silent no-op: trait changes invalidate
// old selections on purpose. Selecting past the mode's cap is
// rejected.
func (o *Orchestrator) ToggleAspect(ctx context.Context, input *ToggleAspectInput) (*ToggleAspectOutput, error) {
	if input == nil || input.ID == "" || input.AspectID == "" {
		return nil, errors.InvalidArgument("id and aspect id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if char.Mode != wildsea.ModeCreation && char.Mode != wildsea.ModeAdvancement {
		return &ToggleAspectOutput{Character: char, Changed: false}, nil
	}

	// Deselect.
	for i := range char.SelectedAspects {
		if char.SelectedAspects[i].ID == input.AspectID {
			char.SelectedAspects = append(char.SelectedAspects[:i], char.SelectedAspects[i+1:]...)
			if err := o.save(ctx, char, input.ClientID); err != nil {
				return nil, err
			}
			return &ToggleAspectOutput{Character: char, Changed: true}, nil
		}
	}

	// Select.
	limit := wildsea.AspectBudget
	if char.Mode == wildsea.ModeAdvancement {
		limit = wildsea.AspectAdvancementCap
	}
	if len(char.SelectedAspects) >= limit {
		return nil, errors.ResourceExhaustedf("aspect limit of %d reached", limit)
	}

	aspect := o.resolveAspect(char, input.AspectID)
	if aspect == nil {
		return &ToggleAspectOutput{Character: char, Changed: false}, nil
	}

	char.SelectedAspects = append(char.SelectedAspects, *aspect)
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &ToggleAspectOutput{Character: char, Changed: true}, nil
}

// resolveAspect reconstructs source and name from an aspect id and
// looks the definition up against the character's current traits. A
// nil return means the id belongs to a source the character no longer
// has.
func (o *Orchestrator) resolveAspect(char *wildsea.Character, aspectID string) *wildsea.Aspect {
	sources := []struct {
		value    string
		category wildsea.SourceCategory
	}{
		{char.Bloodline, wildsea.SourceBloodline},
		{char.Origin, wildsea.SourceOrigin},
		{char.Post, wildsea.SourcePost},
	}

	for _, src := range sources {
		if src.value == "" || !strings.HasPrefix(aspectID, src.value+"-") {
			continue
		}
		name := aspectID[len(src.value)+1:]
		def, err := o.catalog.Aspect(src.value, name)
		if err != nil {
			continue
		}

		states := make([]wildsea.DamageState, def.Track)
		for i := range states {
			states[i] = wildsea.DamageDefault
		}
		return &wildsea.Aspect{
			ID:           aspectID,
			Name:         def.Name,
			Description:  def.Description,
			Type:         def.Type,
			Source:       src.value,
			Category:     src.category,
			Track:        def.Track,
			TrackSize:    def.Track,
			DamageStates: states,
			DamageTypes:  damagetype.Parse(def.Description),
		}
	}
	return nil
}

// ToggleEdge selects or deselects an edge. Edges are fixed after
// creation, so other modes silently no-op; selecting a fourth edge is
// rejected.
func (o *Orchestrator) ToggleEdge(ctx context.Context, input *ToggleEdgeInput) (*ToggleEdgeOutput, error) {
	if input == nil || input.ID == "" || input.Edge == "" {
		return nil, errors.InvalidArgument("id and edge are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if char.Mode != wildsea.ModeCreation {
		return &ToggleEdgeOutput{Character: char, Changed: false}, nil
	}

	for i, e := range char.SelectedEdges {
		if e == input.Edge {
			char.SelectedEdges = append(char.SelectedEdges[:i], char.SelectedEdges[i+1:]...)
			if err := o.save(ctx, char, input.ClientID); err != nil {
				return nil, err
			}
			return &ToggleEdgeOutput{Character: char, Changed: true}, nil
		}
	}

	if !o.catalog.HasEdge(input.Edge) {
		return &ToggleEdgeOutput{Character: char, Changed: false}, nil
	}
	if len(char.SelectedEdges) >= wildsea.EdgeBudget {
		return nil, errors.ResourceExhaustedf("edge limit of %d reached", wildsea.EdgeBudget)
	}

	char.SelectedEdges = append(char.SelectedEdges, input.Edge)
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &ToggleEdgeOutput{Character: char, Changed: true}, nil
}

// AdjustSkill raises or lowers a skill rank one unit at a time, clamped
// to the mode's rank cap. In creation mode, increases past the shared
// point budget are a no-op that leaves the sum unchanged.
func (o *Orchestrator) AdjustSkill(ctx context.Context, input *AdjustSkillInput) (*AdjustSkillOutput, error) {
	if input == nil || input.ID == "" || input.Skill == "" {
		return nil, errors.InvalidArgument("id and skill are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !o.catalog.HasSkill(input.Skill) {
		return &AdjustSkillOutput{Character: char, Changed: false}, nil
	}

	changed := adjustRank(char, char.Skills, input.Skill, input.Delta, false)
	if !changed {
		return &AdjustSkillOutput{Character: char, Changed: false}, nil
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &AdjustSkillOutput{Character: char, Changed: true}, nil
}

// AdjustLanguage raises or lowers a language rank under the same budget
// as skills. The baseline language is exempt from the budget and cannot
// be decremented during creation.
func (o *Orchestrator) AdjustLanguage(ctx context.Context, input *AdjustLanguageInput) (*AdjustLanguageOutput, error) {
	if input == nil || input.ID == "" || input.Language == "" {
		return nil, errors.InvalidArgument("id and language are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !o.catalog.HasLanguage(input.Language) {
		return &AdjustLanguageOutput{Character: char, Changed: false}, nil
	}

	changed := adjustRank(char, char.Languages, input.Language, input.Delta, true)
	if !changed {
		return &AdjustLanguageOutput{Character: char, Changed: false}, nil
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &AdjustLanguageOutput{Character: char, Changed: true}, nil
}

// adjustRank applies a delta one unit at a time so each step can be
// checked against the clamp and, in creation mode, the point budget.
// Reports whether anything actually moved.
func adjustRank(char *wildsea.Character, ranks map[string]int, name string, delta int, isLanguage bool) bool {
	if delta == 0 {
		return false
	}

	isBaseline := isLanguage && name == wildsea.BaselineLanguage
	rankCap := char.RankCap()
	if isBaseline && rankCap < wildsea.BaselineLanguageRank {
		rankCap = wildsea.BaselineLanguageRank
	}
	changed := false

	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}

	for i := 0; i < delta; i++ {
		cur := ranks[name]
		next := cur + step
		if next < 0 || next > rankCap {
			break
		}
		if step > 0 && !isBaseline && char.Mode == wildsea.ModeCreation && char.SkillPointsSpent() >= wildsea.SkillPointBudget {
			break
		}
		if step < 0 && isBaseline && char.Mode == wildsea.ModeCreation {
			break
		}

		if next == 0 {
			delete(ranks, name)
		} else {
			ranks[name] = next
		}
		changed = true
	}
	return changed
}

// CycleAspectDamage advances one track box through default → marked →
// burned → default. Damage only moves in play mode.
func (o *Orchestrator) CycleAspectDamage(ctx context.Context, input *CycleAspectDamageInput) (*CycleAspectDamageOutput, error) {
	if input == nil || input.ID == "" || input.AspectID == "" {
		return nil, errors.InvalidArgument("id and aspect id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if char.Mode != wildsea.ModePlay {
		return &CycleAspectDamageOutput{Character: char, Changed: false}, nil
	}

	aspect := char.AspectByID(input.AspectID)
	if aspect == nil {
		return &CycleAspectDamageOutput{Character: char, Changed: false}, nil
	}
	if input.BoxIndex < 0 || input.BoxIndex >= len(aspect.DamageStates) {
		return nil, errors.InvalidArgumentf("box index %d out of range for track of %d", input.BoxIndex, len(aspect.DamageStates))
	}

	aspect.DamageStates[input.BoxIndex] = nextDamageState(aspect.DamageStates[input.BoxIndex])

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &CycleAspectDamageOutput{Character: char, Changed: true}, nil
}

func nextDamageState(s wildsea.DamageState) wildsea.DamageState {
	switch s {
	case wildsea.DamageDefault:
		return wildsea.DamageMarked
	case wildsea.DamageMarked:
		return wildsea.DamageBurned
	default:
		return wildsea.DamageDefault
	}
}

// ExpandAspectTrack grows or shrinks a track one unit at a time in
// advancement mode, within [original track, max]. The damage-state
// array resizes to match: grown boxes arrive undamaged, shrunk boxes
// fall off the end.
func (o *Orchestrator) ExpandAspectTrack(ctx context.Context, input *ExpandAspectTrackInput) (*ExpandAspectTrackOutput, error) {
	if input == nil || input.ID == "" || input.AspectID == "" {
		return nil, errors.InvalidArgument("id and aspect id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if char.Mode != wildsea.ModeAdvancement {
		return &ExpandAspectTrackOutput{Character: char, Changed: false}, nil
	}

	aspect := char.AspectByID(input.AspectID)
	if aspect == nil {
		return &ExpandAspectTrackOutput{Character: char, Changed: false}, nil
	}

	next := aspect.TrackSize + input.Delta
	if next < aspect.Track {
		next = aspect.Track
	}
	if next > wildsea.MaxTrackSize {
		next = wildsea.MaxTrackSize
	}
	if next == aspect.TrackSize {
		return &ExpandAspectTrackOutput{Character: char, Changed: false}, nil
	}

	for aspect.TrackSize < next {
		aspect.DamageStates = append(aspect.DamageStates, wildsea.DamageDefault)
		aspect.TrackSize++
	}
	for aspect.TrackSize > next {
		aspect.DamageStates = aspect.DamageStates[:len(aspect.DamageStates)-1]
		aspect.TrackSize--
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &ExpandAspectTrackOutput{Character: char, Changed: true}, nil
}

// SelectAspectDamageTypes records the player's picks for a choose-style
// damage grant on a selected aspect.
func (o *Orchestrator) SelectAspectDamageTypes(ctx context.Context, input *SelectAspectDamageTypesInput) (*SelectAspectDamageTypesOutput, error) {
	if input == nil || input.ID == "" || input.AspectID == "" {
		return nil, errors.InvalidArgument("id and aspect id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	aspect := char.AspectByID(input.AspectID)
	if aspect == nil {
		return nil, errors.NotFoundf("aspect %q is not selected", input.AspectID)
	}

	var grant *damagetype.Grant
	for i := range aspect.DamageTypes {
		if aspect.DamageTypes[i].Category == input.Category && aspect.DamageTypes[i].Selection == damagetype.SelectionChoose {
			grant = &aspect.DamageTypes[i]
			break
		}
	}
	if grant == nil {
		return nil, errors.FailedPreconditionf("aspect %q has no choosable %s grant", input.AspectID, input.Category)
	}
	if len(input.Types) > grant.ChooseCount {
		return nil, errors.InvalidArgumentf("at most %d types may be chosen", grant.ChooseCount)
	}
	for _, t := range input.Types {
		if !containsString(grant.Options, t) {
			return nil, errors.InvalidArgumentf("type %q is not offered by this aspect", t)
		}
	}

	if aspect.SelectedDamageTypes == nil {
		aspect.SelectedDamageTypes = map[damagetype.Category][]string{}
	}
	aspect.SelectedDamageTypes[input.Category] = append([]string{}, input.Types...)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &SelectAspectDamageTypesOutput{Character: char}, nil
}

// AddMilestone records a progression marker. Milestones are earned in
// play, never during creation.
func (o *Orchestrator) AddMilestone(ctx context.Context, input *AddMilestoneInput) (*AddMilestoneOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and name are required")
	}
	if input.Scale != wildsea.MilestoneMinor && input.Scale != wildsea.MilestoneMajor {
		return nil, errors.InvalidArgumentf("unknown milestone scale %q", input.Scale)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode == wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("milestones cannot be recorded during creation")
	}

	m := wildsea.Milestone{
		ID:    o.itemIDGen.Generate(),
		Name:  input.Name,
		Scale: input.Scale,
	}
	char.Milestones = append(char.Milestones, m)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &AddMilestoneOutput{Character: char, Milestone: &char.Milestones[len(char.Milestones)-1]}, nil
}

// UpdateMilestone renames a milestone or flips its used flag.
func (o *Orchestrator) UpdateMilestone(ctx context.Context, input *UpdateMilestoneInput) (*UpdateMilestoneOutput, error) {
	if input == nil || input.ID == "" || input.MilestoneID == "" {
		return nil, errors.InvalidArgument("id and milestone id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode == wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("milestones cannot be recorded during creation")
	}

	var m *wildsea.Milestone
	for i := range char.Milestones {
		if char.Milestones[i].ID == input.MilestoneID {
			m = &char.Milestones[i]
			break
		}
	}
	if m == nil {
		return nil, errors.NotFoundf("milestone %q not found", input.MilestoneID)
	}

	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.Used != nil {
		m.Used = *input.Used
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &UpdateMilestoneOutput{Character: char}, nil
}

// RemoveMilestone deletes a milestone.
func (o *Orchestrator) RemoveMilestone(ctx context.Context, input *RemoveMilestoneInput) (*RemoveMilestoneOutput, error) {
	if input == nil || input.ID == "" || input.MilestoneID == "" {
		return nil, errors.InvalidArgument("id and milestone id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode == wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("milestones cannot be recorded during creation")
	}

	found := false
	for i := range char.Milestones {
		if char.Milestones[i].ID == input.MilestoneID {
			char.Milestones = append(char.Milestones[:i], char.Milestones[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("milestone %q not found", input.MilestoneID)
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &RemoveMilestoneOutput{Character: char}, nil
}

// SetDrive sets the text of one drive slot.
func (o *Orchestrator) SetDrive(ctx context.Context, input *SetDriveInput) (*SetDriveOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Slot < 0 || input.Slot >= wildsea.DriveSlots {
		return nil, errors.InvalidArgumentf("drive slot %d out of range", input.Slot)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	char.Drives[input.Slot] = input.Text
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &SetDriveOutput{Character: char}, nil
}

// SetMire sets the text of one mire slot, leaving its marks alone.
func (o *Orchestrator) SetMire(ctx context.Context, input *SetMireInput) (*SetMireOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Slot < 0 || input.Slot >= wildsea.MireSlots {
		return nil, errors.InvalidArgumentf("mire slot %d out of range", input.Slot)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	char.Mires[input.Slot].Text = input.Text
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &SetMireOutput{Character: char}, nil
}

// ToggleMireMark flips one of a mire's two mark boxes. Marks are only
// meaningful in play, so other modes silently keep them unchanged.
func (o *Orchestrator) ToggleMireMark(ctx context.Context, input *ToggleMireMarkInput) (*ToggleMireMarkOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Slot < 0 || input.Slot >= wildsea.MireSlots {
		return nil, errors.InvalidArgumentf("mire slot %d out of range", input.Slot)
	}
	if input.Mark < 0 || input.Mark > 1 {
		return nil, errors.InvalidArgumentf("mire mark %d out of range", input.Mark)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode != wildsea.ModePlay {
		return &ToggleMireMarkOutput{Character: char}, nil
	}

	char.Mires[input.Slot].Marks[input.Mark] = !char.Mires[input.Slot].Marks[input.Mark]
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &ToggleMireMarkOutput{Character: char}, nil
}

// AddResource appends a named item to a bucket. The soft cap on total
// resources is a validation-time warning, not an add-time gate.
func (o *Orchestrator) AddResource(ctx context.Context, input *AddResourceInput) (*AddResourceOutput, error) {
	if input == nil || input.ID == "" || input.Name == "" {
		return nil, errors.InvalidArgument("id and name are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	bucket := char.Resources.Bucket(input.Bucket)
	if bucket == nil {
		return nil, errors.InvalidArgumentf("unknown resource bucket %q", input.Bucket)
	}

	item := wildsea.NamedItem{ID: o.itemIDGen.Generate(), Name: input.Name}
	*bucket = append(*bucket, item)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &AddResourceOutput{Character: char, Resource: &(*bucket)[len(*bucket)-1]}, nil
}

// UpdateResource renames a resource in place.
func (o *Orchestrator) UpdateResource(ctx context.Context, input *UpdateResourceInput) (*UpdateResourceOutput, error) {
	if input == nil || input.ID == "" || input.ResourceID == "" {
		return nil, errors.InvalidArgument("id and resource id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	bucket := char.Resources.Bucket(input.Bucket)
	if bucket == nil {
		return nil, errors.InvalidArgumentf("unknown resource bucket %q", input.Bucket)
	}

	found := false
	for i := range *bucket {
		if (*bucket)[i].ID == input.ResourceID {
			(*bucket)[i].Name = input.Name
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("resource %q not found in %s", input.ResourceID, input.Bucket)
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &UpdateResourceOutput{Character: char}, nil
}

// RemoveResource deletes a resource from its bucket.
func (o *Orchestrator) RemoveResource(ctx context.Context, input *RemoveResourceInput) (*RemoveResourceOutput, error) {
	if input == nil || input.ID == "" || input.ResourceID == "" {
		return nil, errors.InvalidArgument("id and resource id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	bucket := char.Resources.Bucket(input.Bucket)
	if bucket == nil {
		return nil, errors.InvalidArgumentf("unknown resource bucket %q", input.Bucket)
	}

	found := false
	for i := range *bucket {
		if (*bucket)[i].ID == input.ResourceID {
			*bucket = append((*bucket)[:i], (*bucket)[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("resource %q not found in %s", input.ResourceID, input.Bucket)
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &RemoveResourceOutput{Character: char}, nil
}

// AddTask starts a multi-tick undertaking.
func (o *Orchestrator) AddTask(ctx context.Context, input *AddTaskInput) (*AddTaskOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.MaxTicks < wildsea.MinTaskTicks || input.MaxTicks > wildsea.MaxTaskTicks {
		return nil, errors.InvalidArgumentf("max ticks must be in [%d, %d]", wildsea.MinTaskTicks, wildsea.MaxTaskTicks)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	task := wildsea.Task{
		ID:       o.itemIDGen.Generate(),
		Name:     input.Name,
		MaxTicks: input.MaxTicks,
	}
	char.Tasks = append(char.Tasks, task)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &AddTaskOutput{Character: char, Task: &char.Tasks[len(char.Tasks)-1]}, nil
}

// TickTask advances a task one tick, wrapping back to zero past the
// maximum so repeated clicks cycle.
func (o *Orchestrator) TickTask(ctx context.Context, input *TickTaskInput) (*TickTaskOutput, error) {
	if input == nil || input.ID == "" || input.TaskID == "" {
		return nil, errors.InvalidArgument("id and task id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	task := findTask(char, input.TaskID)
	if task == nil {
		return nil, errors.NotFoundf("task %q not found", input.TaskID)
	}

	task.CurrentTicks = (task.CurrentTicks + 1) % (task.MaxTicks + 1)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &TickTaskOutput{Character: char}, nil
}

// UpdateTask edits a task's name, size, or editing flag. Shrinking the
// max clamps the current tick count into range.
func (o *Orchestrator) UpdateTask(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
	if input == nil || input.ID == "" || input.TaskID == "" {
		return nil, errors.InvalidArgument("id and task id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	task := findTask(char, input.TaskID)
	if task == nil {
		return nil, errors.NotFoundf("task %q not found", input.TaskID)
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.MaxTicks != nil {
		if *input.MaxTicks < wildsea.MinTaskTicks || *input.MaxTicks > wildsea.MaxTaskTicks {
			return nil, errors.InvalidArgumentf("max ticks must be in [%d, %d]", wildsea.MinTaskTicks, wildsea.MaxTaskTicks)
		}
		task.MaxTicks = *input.MaxTicks
		if task.CurrentTicks > task.MaxTicks {
			task.CurrentTicks = task.MaxTicks
		}
	}
	if input.Editing != nil {
		task.Editing = *input.Editing
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &UpdateTaskOutput{Character: char}, nil
}

// RemoveTask deletes a task.
func (o *Orchestrator) RemoveTask(ctx context.Context, input *RemoveTaskInput) (*RemoveTaskOutput, error) {
	if input == nil || input.ID == "" || input.TaskID == "" {
		return nil, errors.InvalidArgument("id and task id are required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range char.Tasks {
		if char.Tasks[i].ID == input.TaskID {
			char.Tasks = append(char.Tasks[:i], char.Tasks[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFoundf("task %q not found", input.TaskID)
	}

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &RemoveTaskOutput{Character: char}, nil
}

func findTask(char *wildsea.Character, id string) *wildsea.Task {
	for i := range char.Tasks {
		if char.Tasks[i].ID == id {
			return &char.Tasks[i]
		}
	}
	return nil
}

// GenerateRandom resets the character and rolls a complete creation
// loadout: uniform traits, four aspects from the combined pools, three
// edges, and exactly the full point budget scattered one unit at a
// time onto skills at the creation rank cap.
func (o *Orchestrator) GenerateRandom(ctx context.Context, input *GenerateRandomInput) (*GenerateRandomOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	fresh := wildsea.NewCharacter(char.ID)
	fresh.SessionID = char.SessionID
	fresh.Name = char.Name
	fresh.CreatedAt = char.CreatedAt

	if len(o.catalog.Bloodlines) == 0 || len(o.catalog.Origins) == 0 || len(o.catalog.Posts) == 0 {
		return nil, errors.Internal("reference data has no core traits to draw from")
	}
	fresh.Bloodline = o.catalog.Bloodlines[o.rng.Intn(len(o.catalog.Bloodlines))]
	fresh.Origin = o.catalog.Origins[o.rng.Intn(len(o.catalog.Origins))]
	fresh.Post = o.catalog.Posts[o.rng.Intn(len(o.catalog.Posts))]

	// Aspects: draw without replacement from the three pools combined.
	pool := o.aspectPool(fresh)
	for _, idx := range o.rng.Perm(len(pool)) {
		if len(fresh.SelectedAspects) == wildsea.AspectBudget {
			break
		}
		fresh.SelectedAspects = append(fresh.SelectedAspects, pool[idx])
	}

	for _, idx := range o.rng.Perm(len(o.catalog.Edges)) {
		if len(fresh.SelectedEdges) == wildsea.EdgeBudget {
			break
		}
		fresh.SelectedEdges = append(fresh.SelectedEdges, o.catalog.Edges[idx])
	}

	// Scatter the point budget one unit at a time. Stops early only if
	// every skill has hit the rank cap, which guarantees termination.
	placed := 0
	for placed < wildsea.SkillPointBudget {
		open := []string{}
		for _, s := range o.catalog.Skills {
			if fresh.Skills[s] < wildsea.CreationRankCap {
				open = append(open, s)
			}
		}
		if len(open) == 0 {
			break
		}
		fresh.Skills[open[o.rng.Intn(len(open))]]++
		placed++
	}

	if err := o.save(ctx, fresh, input.ClientID); err != nil {
		return nil, err
	}
	return &GenerateRandomOutput{Character: fresh}, nil
}

func (o *Orchestrator) aspectPool(char *wildsea.Character) []wildsea.Aspect {
	var pool []wildsea.Aspect
	sources := []struct {
		value    string
		category wildsea.SourceCategory
	}{
		{char.Bloodline, wildsea.SourceBloodline},
		{char.Origin, wildsea.SourceOrigin},
		{char.Post, wildsea.SourcePost},
	}
	for _, src := range sources {
		for _, def := range o.catalog.AspectsFor(src.value) {
			states := make([]wildsea.DamageState, def.Track)
			for i := range states {
				states[i] = wildsea.DamageDefault
			}
			pool = append(pool, wildsea.Aspect{
				ID:           wildsea.AspectID(src.value, def.Name),
				Name:         def.Name,
				Description:  def.Description,
				Type:         def.Type,
				Source:       src.value,
				Category:     src.category,
				Track:        def.Track,
				TrackSize:    def.Track,
				DamageStates: states,
				DamageTypes:  damagetype.Parse(def.Description),
			})
		}
	}
	return pool
}

// ValidateForPlay runs the creation-gate checks and returns the
// human-readable failures. An empty list means the character may leave
// creation mode.
func (o *Orchestrator) ValidateForPlay(ctx context.Context, input *ValidateForPlayInput) (*ValidateForPlayOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ValidateForPlayOutput{
		Failures:        creationGateFailures(char),
		OverResourceCap: char.Resources.Total() > wildsea.ResourceSoftCap,
	}, nil
}

func creationGateFailures(char *wildsea.Character) []string {
	failures := []string{}
	if n := len(char.SelectedAspects); n != wildsea.AspectBudget {
		failures = append(failures, fmtCount("aspect", n, wildsea.AspectBudget))
	}
	if n := len(char.SelectedEdges); n != wildsea.EdgeBudget {
		failures = append(failures, fmtCount("edge", n, wildsea.EdgeBudget))
	}
	if n := char.SkillPointsSpent(); n != wildsea.SkillPointBudget {
		failures = append(failures, fmtCount("skill and language point", n, wildsea.SkillPointBudget))
	}
	return failures
}

// FinalizeCreation moves the character from creation to play once every
// gate check passes, granting the starting resources for its traits.
// The same checks the client runs are enforced here so a stale client
// cannot push an unfinished character into play.
func (o *Orchestrator) FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode != wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("character is not in creation mode")
	}

	if failures := creationGateFailures(char); len(failures) > 0 {
		return nil, errors.FailedPrecondition("character is not ready for play").
			WithMeta("failures", failures)
	}

	char.Mode = wildsea.ModePlay
	o.grantStartingResources(char)

	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &FinalizeCreationOutput{Character: char}, nil
}

func (o *Orchestrator) grantStartingResources(char *wildsea.Character) {
	for _, source := range []string{char.Bloodline, char.Origin, char.Post} {
		for _, sr := range o.catalog.StartingResources[source] {
			bucket := char.Resources.Bucket(sr.Bucket)
			if bucket == nil {
				continue
			}
			*bucket = append(*bucket, wildsea.NamedItem{
				ID:   o.itemIDGen.Generate(),
				Name: sr.Name,
			})
		}
	}
}

// SetMode moves the character between play and advancement. Creation is
// only left through FinalizeCreation and never re-entered.
func (o *Orchestrator) SetMode(ctx context.Context, input *SetModeInput) (*SetModeOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if input.Mode != wildsea.ModePlay && input.Mode != wildsea.ModeAdvancement {
		return nil, errors.InvalidArgumentf("cannot set mode %q directly", input.Mode)
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if char.Mode == wildsea.ModeCreation {
		return nil, errors.FailedPrecondition("character has not finished creation")
	}
	if char.Mode == input.Mode {
		return &SetModeOutput{Character: char}, nil
	}

	char.Mode = input.Mode
	if err := o.save(ctx, char, input.ClientID); err != nil {
		return nil, err
	}
	return &SetModeOutput{Character: char}, nil
}

func (o *Orchestrator) load(ctx context.Context, id string) (*wildsea.Character, error) {
	out, err := o.repo.Get(ctx, characterrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %s", id)
	}
	return out.Character, nil
}

func (o *Orchestrator) save(ctx context.Context, char *wildsea.Character, clientID string) error {
	if _, err := o.repo.Update(ctx, characterrepo.UpdateInput{Character: char}); err != nil {
		return errors.Wrapf(err, "failed to update character %s", char.ID)
	}
	o.publish(ctx, char, sync.EventUpdated, clientID)
	return nil
}

// publish sends the change event. A failed publish is never fatal: the
// write already landed and the polling fallback covers delivery.
func (o *Orchestrator) publish(ctx context.Context, char *wildsea.Character, eventType sync.EventType, clientID string) {
	if char.SessionID == "" {
		return
	}
	err := o.publisher.Publish(ctx, char.SessionID, sync.Event{
		Type:     eventType,
		Kind:     sync.KindCharacter,
		EntityID: char.ID,
		Origin:   clientID,
	})
	if err != nil {
		slog.DebugContext(ctx, "change event not delivered",
			"character_id", char.ID,
			"error", err.Error())
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func fmtCount(noun string, got, want int) string {
	return fmt.Sprintf("exactly %d %ss required, have %d", want, noun, got)
}
