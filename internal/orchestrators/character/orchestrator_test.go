package character_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/driftcrew/wildsea-api/internal/catalog"
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
	"github.com/driftcrew/wildsea-api/internal/pkg/idgen"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	"github.com/driftcrew/wildsea-api/internal/rules/damagetype"
	"github.com/driftcrew/wildsea-api/internal/sync"
	"github.com/driftcrew/wildsea-api/internal/testutils"
)

type orchestratorTestSuite struct {
	suite.Suite
	ctx  context.Context
	orch *charorch.Orchestrator
	repo characterrepo.Repository
}

func (s *orchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, _ := testutils.CreateTestRedis(s.T())

	repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo

	cat, err := catalog.Load()
	s.Require().NoError(err)

	pub, err := sync.NewPublisher(&sync.PublisherConfig{Client: client})
	s.Require().NoError(err)

	s.orch, err = charorch.New(&charorch.Config{
		CharacterRepo:   repo,
		Catalog:         cat,
		Publisher:       pub,
		IDGenerator:     idgen.NewSequential("char"),
		ItemIDGenerator: idgen.NewSequential("item"),
		Rand:            rand.New(rand.NewSource(7)),
	})
	s.Require().NoError(err)
}

func (s *orchestratorTestSuite) create() *wildsea.Character {
	out, err := s.orch.Create(s.ctx, &charorch.CreateInput{SessionID: "sess_1", Name: "Varek"})
	s.Require().NoError(err)
	return out.Character
}

// createComplete builds a character that satisfies every creation gate:
// three traits, four aspects, three edges, eight skill points.
func (s *orchestratorTestSuite) createComplete() *wildsea.Character {
	char := s.create()

	for _, trait := range []struct {
		cat   charorch.TraitCategory
		value string
	}{
		{charorch.TraitBloodline, "Ardent"},
		{charorch.TraitOrigin, "Rootless"},
		{charorch.TraitPost, "Char"},
	} {
		_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
			ID: char.ID, Category: trait.cat, Value: trait.value,
		})
		s.Require().NoError(err)
	}

	for _, id := range []string{
		"Ardent-Fiery Heart", "Ardent-Ember Shell", "Rootless-Wave-Reader", "Char-Firebreak",
	} {
		out, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{ID: char.ID, AspectID: id})
		s.Require().NoError(err)
		s.Require().True(out.Changed, "aspect %s should resolve", id)
	}

	for _, edge := range []string{"Grace", "Iron", "Teeth"} {
		_, err := s.orch.ToggleEdge(s.ctx, &charorch.ToggleEdgeInput{ID: char.ID, Edge: edge})
		s.Require().NoError(err)
	}

	for _, skill := range []string{"Brace", "Break", "Concoct", "Cook"} {
		_, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: skill, Delta: 2})
		s.Require().NoError(err)
	}

	out, err := s.orch.Get(s.ctx, &charorch.GetInput{ID: char.ID})
	s.Require().NoError(err)
	return out.Character
}

// createInMode stores a character directly in the repository so tests
// can start from play or advancement without walking the whole gate.
func (s *orchestratorTestSuite) createInMode(mode wildsea.Mode) *wildsea.Character {
	char := wildsea.NewCharacter("char_direct")
	char.SessionID = "sess_1"
	char.Mode = mode
	char.SelectedAspects = []wildsea.Aspect{{
		ID:           "Ardent-Fiery Heart",
		Name:         "Fiery Heart",
		Source:       "Ardent",
		Category:     wildsea.SourceBloodline,
		Track:        3,
		TrackSize:    3,
		DamageStates: []wildsea.DamageState{wildsea.DamageDefault, wildsea.DamageDefault, wildsea.DamageDefault},
	}}

	created, err := s.repo.Create(s.ctx, characterrepo.CreateInput{Character: char})
	s.Require().NoError(err)
	return created.Character
}

func (s *orchestratorTestSuite) TestCreateSeedsBaselineLanguage() {
	char := s.create()

	s.Equal(wildsea.ModeCreation, char.Mode)
	s.Equal(wildsea.BaselineLanguageRank, char.Languages[wildsea.BaselineLanguage])
	s.Zero(char.SkillPointsSpent())
}

func (s *orchestratorTestSuite) TestUpdateCoreTraitClearsAspects() {
	char := s.createComplete()
	s.Len(char.SelectedAspects, 4)

	out, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Ektus",
	})
	s.Require().NoError(err)

	s.Equal("Ektus", out.Character.Bloodline)
	s.Equal(4, out.ClearedAspects)
	s.Empty(out.Character.SelectedAspects)
}

func (s *orchestratorTestSuite) TestUpdateCoreTraitRejectsUnknownValue() {
	char := s.create()

	_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Ironclad",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *orchestratorTestSuite) TestToggleAspectSeedsTrackAndGrants() {
	char := s.create()
	_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Ardent",
	})
	s.Require().NoError(err)

	out, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart",
	})
	s.Require().NoError(err)
	s.Require().True(out.Changed)

	aspect := out.Character.AspectByID("Ardent-Fiery Heart")
	s.Require().NotNil(aspect)
	s.Equal(3, aspect.Track)
	s.Equal(3, aspect.TrackSize)
	s.Len(aspect.DamageStates, 3)
	for _, state := range aspect.DamageStates {
		s.Equal(wildsea.DamageDefault, state)
	}

	// "resistant to Flame and Frost" parses into a fixed resistance grant.
	s.Require().Len(aspect.DamageTypes, 1)
	s.Equal(damagetype.CategoryResistance, aspect.DamageTypes[0].Category)
	s.ElementsMatch([]string{"Flame", "Frost"}, aspect.DamageTypes[0].Options)
}

func (s *orchestratorTestSuite) TestToggleAspectRoundTrip() {
	char := s.create()
	_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Ardent",
	})
	s.Require().NoError(err)

	on, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{ID: char.ID, AspectID: "Ardent-Ember Shell"})
	s.Require().NoError(err)
	s.Len(on.Character.SelectedAspects, 1)

	off, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{ID: char.ID, AspectID: "Ardent-Ember Shell"})
	s.Require().NoError(err)
	s.True(off.Changed)
	s.Empty(off.Character.SelectedAspects)
}

func (s *orchestratorTestSuite) TestToggleAspectBudget() {
	char := s.createComplete()

	// Four aspects are already selected; a fifth must be rejected.
	_, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Ardent-Living Furnace",
	})
	s.Require().Error(err)
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestToggleAspectUnresolvableIDNoOps() {
	char := s.create()
	_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Ardent",
	})
	s.Require().NoError(err)

	// Ektus aspects don't resolve against an Ardent character.
	out, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Ektus-Thorned Hide",
	})
	s.Require().NoError(err)
	s.False(out.Changed)
	s.Empty(out.Character.SelectedAspects)
}

func (s *orchestratorTestSuite) TestToggleAspectNoOpInPlayMode() {
	char := s.createInMode(wildsea.ModePlay)

	out, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart",
	})
	s.Require().NoError(err)
	s.False(out.Changed)
	s.Len(out.Character.SelectedAspects, 1)
}

func (s *orchestratorTestSuite) TestToggleEdgeBudget() {
	char := s.create()

	for _, edge := range []string{"Grace", "Iron", "Teeth"} {
		out, err := s.orch.ToggleEdge(s.ctx, &charorch.ToggleEdgeInput{ID: char.ID, Edge: edge})
		s.Require().NoError(err)
		s.True(out.Changed)
	}

	_, err := s.orch.ToggleEdge(s.ctx, &charorch.ToggleEdgeInput{ID: char.ID, Edge: "Veils"})
	s.Require().Error(err)
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))

	// Deselecting still works at the cap.
	out, err := s.orch.ToggleEdge(s.ctx, &charorch.ToggleEdgeInput{ID: char.ID, Edge: "Iron"})
	s.Require().NoError(err)
	s.Len(out.Character.SelectedEdges, 2)
}

func (s *orchestratorTestSuite) TestAdjustSkillBudgetIsNoOpAtCap() {
	char := s.create()

	for _, skill := range []string{"Brace", "Break", "Concoct", "Cook"} {
		_, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: skill, Delta: 2})
		s.Require().NoError(err)
	}

	out, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: "Delve", Delta: 1})
	s.Require().NoError(err)
	s.False(out.Changed)
	s.Equal(wildsea.SkillPointBudget, out.Character.SkillPointsSpent())
	s.Zero(out.Character.Skills["Delve"])
}

func (s *orchestratorTestSuite) TestAdjustSkillClampsToCreationRankCap() {
	char := s.create()

	out, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: "Hunt", Delta: 5})
	s.Require().NoError(err)
	s.True(out.Changed)
	s.Equal(wildsea.CreationRankCap, out.Character.Skills["Hunt"])
	s.Equal(wildsea.CreationRankCap, out.Character.SkillPointsSpent())
}

func (s *orchestratorTestSuite) TestAdjustSkillRankZeroRemovesEntry() {
	char := s.create()

	_, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: "Hunt", Delta: 1})
	s.Require().NoError(err)

	out, err := s.orch.AdjustSkill(s.ctx, &charorch.AdjustSkillInput{ID: char.ID, Skill: "Hunt", Delta: -1})
	s.Require().NoError(err)
	s.True(out.Changed)
	s.NotContains(out.Character.Skills, "Hunt")
}

func (s *orchestratorTestSuite) TestAdjustLanguageBaselineProtectedInCreation() {
	char := s.create()

	out, err := s.orch.AdjustLanguage(s.ctx, &charorch.AdjustLanguageInput{
		ID: char.ID, Language: wildsea.BaselineLanguage, Delta: -1,
	})
	s.Require().NoError(err)
	s.False(out.Changed)
	s.Equal(wildsea.BaselineLanguageRank, out.Character.Languages[wildsea.BaselineLanguage])
}

func (s *orchestratorTestSuite) TestAdjustLanguageCountsAgainstBudget() {
	char := s.create()

	_, err := s.orch.AdjustLanguage(s.ctx, &charorch.AdjustLanguageInput{ID: char.ID, Language: "Knock", Delta: 2})
	s.Require().NoError(err)

	out, err := s.orch.Get(s.ctx, &charorch.GetInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(2, out.Character.SkillPointsSpent())
}

func (s *orchestratorTestSuite) TestCycleAspectDamage() {
	char := s.createInMode(wildsea.ModePlay)

	states := []wildsea.DamageState{wildsea.DamageMarked, wildsea.DamageBurned, wildsea.DamageDefault}
	for _, want := range states {
		out, err := s.orch.CycleAspectDamage(s.ctx, &charorch.CycleAspectDamageInput{
			ID: char.ID, AspectID: "Ardent-Fiery Heart", BoxIndex: 0,
		})
		s.Require().NoError(err)
		s.True(out.Changed)
		s.Equal(want, out.Character.AspectByID("Ardent-Fiery Heart").DamageStates[0])
	}
}

func (s *orchestratorTestSuite) TestCycleAspectDamageOnlyInPlay() {
	char := s.createInMode(wildsea.ModeAdvancement)

	out, err := s.orch.CycleAspectDamage(s.ctx, &charorch.CycleAspectDamageInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", BoxIndex: 0,
	})
	s.Require().NoError(err)
	s.False(out.Changed)
}

func (s *orchestratorTestSuite) TestCycleAspectDamageBoxOutOfRange() {
	char := s.createInMode(wildsea.ModePlay)

	_, err := s.orch.CycleAspectDamage(s.ctx, &charorch.CycleAspectDamageInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", BoxIndex: 3,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *orchestratorTestSuite) TestExpandAspectTrack() {
	char := s.createInMode(wildsea.ModeAdvancement)

	out, err := s.orch.ExpandAspectTrack(s.ctx, &charorch.ExpandAspectTrackInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", Delta: 1,
	})
	s.Require().NoError(err)
	s.True(out.Changed)

	aspect := out.Character.AspectByID("Ardent-Fiery Heart")
	s.Equal(4, aspect.TrackSize)
	s.Len(aspect.DamageStates, 4)
	s.Equal(wildsea.DamageDefault, aspect.DamageStates[3])

	// Clamp at the maximum.
	out, err = s.orch.ExpandAspectTrack(s.ctx, &charorch.ExpandAspectTrackInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", Delta: 3,
	})
	s.Require().NoError(err)
	s.Equal(wildsea.MaxTrackSize, out.Character.AspectByID("Ardent-Fiery Heart").TrackSize)

	// Never shrinks below the original track.
	out, err = s.orch.ExpandAspectTrack(s.ctx, &charorch.ExpandAspectTrackInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", Delta: -10,
	})
	s.Require().NoError(err)
	aspect = out.Character.AspectByID("Ardent-Fiery Heart")
	s.Equal(3, aspect.TrackSize)
	s.Len(aspect.DamageStates, 3)
}

func (s *orchestratorTestSuite) TestExpandAspectTrackOnlyInAdvancement() {
	char := s.createInMode(wildsea.ModePlay)

	out, err := s.orch.ExpandAspectTrack(s.ctx, &charorch.ExpandAspectTrackInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart", Delta: 1,
	})
	s.Require().NoError(err)
	s.False(out.Changed)
}

func (s *orchestratorTestSuite) TestSelectAspectDamageTypes() {
	char := s.create()
	_, err := s.orch.UpdateCoreTrait(s.ctx, &charorch.UpdateCoreTraitInput{
		ID: char.ID, Category: charorch.TraitBloodline, Value: "Tzelicrae",
	})
	s.Require().NoError(err)

	_, err = s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Tzelicrae-Chitin Weave",
	})
	s.Require().NoError(err)

	out, err := s.orch.SelectAspectDamageTypes(s.ctx, &charorch.SelectAspectDamageTypesInput{
		ID:       char.ID,
		AspectID: "Tzelicrae-Chitin Weave",
		Category: damagetype.CategoryResistance,
		Types:    []string{"Blunt", "Keen"},
	})
	s.Require().NoError(err)

	aspect := out.Character.AspectByID("Tzelicrae-Chitin Weave")
	s.Equal([]string{"Blunt", "Keen"}, aspect.SelectedDamageTypes[damagetype.CategoryResistance])

	// Picks outside the offered list are rejected.
	_, err = s.orch.SelectAspectDamageTypes(s.ctx, &charorch.SelectAspectDamageTypesInput{
		ID:       char.ID,
		AspectID: "Tzelicrae-Chitin Weave",
		Category: damagetype.CategoryResistance,
		Types:    []string{"Flame"},
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *orchestratorTestSuite) TestMilestonesBlockedInCreation() {
	char := s.create()

	_, err := s.orch.AddMilestone(s.ctx, &charorch.AddMilestoneInput{
		ID: char.ID, Name: "Crossed the thrash", Scale: wildsea.MilestoneMinor,
	})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestMilestoneLifecycle() {
	char := s.createInMode(wildsea.ModePlay)

	added, err := s.orch.AddMilestone(s.ctx, &charorch.AddMilestoneInput{
		ID: char.ID, Name: "Crossed the thrash", Scale: wildsea.MilestoneMinor,
	})
	s.Require().NoError(err)
	s.Require().NotNil(added.Milestone)

	used := true
	updated, err := s.orch.UpdateMilestone(s.ctx, &charorch.UpdateMilestoneInput{
		ID: char.ID, MilestoneID: added.Milestone.ID, Used: &used,
	})
	s.Require().NoError(err)
	s.True(updated.Character.Milestones[0].Used)

	removed, err := s.orch.RemoveMilestone(s.ctx, &charorch.RemoveMilestoneInput{
		ID: char.ID, MilestoneID: added.Milestone.ID,
	})
	s.Require().NoError(err)
	s.Empty(removed.Character.Milestones)
}

func (s *orchestratorTestSuite) TestMilestoneEditsBlockedInCreation() {
	// An imported character can re-enter creation already carrying
	// milestones; edits stay locked until the character leaves creation.
	char := wildsea.NewCharacter("char_imported")
	char.SessionID = "sess_1"
	char.Milestones = []wildsea.Milestone{{
		ID: "ms_1", Name: "Crossed the thrash", Scale: wildsea.MilestoneMinor,
	}}
	_, err := s.repo.Create(s.ctx, characterrepo.CreateInput{Character: char})
	s.Require().NoError(err)

	used := true
	_, err = s.orch.UpdateMilestone(s.ctx, &charorch.UpdateMilestoneInput{
		ID: char.ID, MilestoneID: "ms_1", Used: &used,
	})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))

	_, err = s.orch.RemoveMilestone(s.ctx, &charorch.RemoveMilestoneInput{
		ID: char.ID, MilestoneID: "ms_1",
	})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestResourceLifecycle() {
	char := s.create()

	added, err := s.orch.AddResource(s.ctx, &charorch.AddResourceInput{
		ID: char.ID, Bucket: "salvage", Name: "Bent compass",
	})
	s.Require().NoError(err)
	s.Require().NotNil(added.Resource)

	updated, err := s.orch.UpdateResource(s.ctx, &charorch.UpdateResourceInput{
		ID: char.ID, Bucket: "salvage", ResourceID: added.Resource.ID, Name: "True compass",
	})
	s.Require().NoError(err)
	s.Equal("True compass", updated.Character.Resources.Salvage[0].Name)

	removed, err := s.orch.RemoveResource(s.ctx, &charorch.RemoveResourceInput{
		ID: char.ID, Bucket: "salvage", ResourceID: added.Resource.ID,
	})
	s.Require().NoError(err)
	s.Zero(removed.Character.Resources.Total())
}

func (s *orchestratorTestSuite) TestAddResourceUnknownBucket() {
	char := s.create()

	_, err := s.orch.AddResource(s.ctx, &charorch.AddResourceInput{
		ID: char.ID, Bucket: "treasure", Name: "Doubloon",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *orchestratorTestSuite) TestTaskTicksWrap() {
	char := s.create()

	added, err := s.orch.AddTask(s.ctx, &charorch.AddTaskInput{
		ID: char.ID, Name: "Chart the reef", MaxTicks: 3,
	})
	s.Require().NoError(err)

	want := []int{1, 2, 3, 0}
	for _, ticks := range want {
		out, err := s.orch.TickTask(s.ctx, &charorch.TickTaskInput{ID: char.ID, TaskID: added.Task.ID})
		s.Require().NoError(err)
		s.Equal(ticks, out.Character.Tasks[0].CurrentTicks)
	}
}

func (s *orchestratorTestSuite) TestUpdateTaskShrinkClampsTicks() {
	char := s.create()

	added, err := s.orch.AddTask(s.ctx, &charorch.AddTaskInput{
		ID: char.ID, Name: "Chart the reef", MaxTicks: 5,
	})
	s.Require().NoError(err)

	for i := 0; i < 4; i++ {
		_, err := s.orch.TickTask(s.ctx, &charorch.TickTaskInput{ID: char.ID, TaskID: added.Task.ID})
		s.Require().NoError(err)
	}

	max := 2
	out, err := s.orch.UpdateTask(s.ctx, &charorch.UpdateTaskInput{
		ID: char.ID, TaskID: added.Task.ID, MaxTicks: &max,
	})
	s.Require().NoError(err)
	s.Equal(2, out.Character.Tasks[0].CurrentTicks)
}

func (s *orchestratorTestSuite) TestGenerateRandomMeetsEveryBudget() {
	char := s.create()

	out, err := s.orch.GenerateRandom(s.ctx, &charorch.GenerateRandomInput{ID: char.ID})
	s.Require().NoError(err)

	got := out.Character
	s.NotEmpty(got.Bloodline)
	s.NotEmpty(got.Origin)
	s.NotEmpty(got.Post)
	s.Len(got.SelectedAspects, wildsea.AspectBudget)
	s.Len(got.SelectedEdges, wildsea.EdgeBudget)
	s.Equal(wildsea.SkillPointBudget, got.SkillPointsSpent())
	for skill, rank := range got.Skills {
		s.LessOrEqual(rank, wildsea.CreationRankCap, "skill %s over the creation cap", skill)
	}
	s.Equal(wildsea.BaselineLanguageRank, got.Languages[wildsea.BaselineLanguage])
	s.Empty(creationFailures(s, got.ID))
}

func creationFailures(s *orchestratorTestSuite, id string) []string {
	out, err := s.orch.ValidateForPlay(s.ctx, &charorch.ValidateForPlayInput{ID: id})
	s.Require().NoError(err)
	return out.Failures
}

func (s *orchestratorTestSuite) TestValidateForPlayGate() {
	char := s.createComplete()
	s.Empty(creationFailures(s, char.ID))

	// Dropping one aspect produces exactly one failure, naming aspects.
	_, err := s.orch.ToggleAspect(s.ctx, &charorch.ToggleAspectInput{
		ID: char.ID, AspectID: "Ardent-Fiery Heart",
	})
	s.Require().NoError(err)

	failures := creationFailures(s, char.ID)
	s.Require().Len(failures, 1)
	s.Contains(failures[0], "aspect")
}

func (s *orchestratorTestSuite) TestValidateFlagsResourcesPastSoftCap() {
	char := s.createComplete()

	out, err := s.orch.ValidateForPlay(s.ctx, &charorch.ValidateForPlayInput{ID: char.ID})
	s.Require().NoError(err)
	s.False(out.OverResourceCap)

	for i := 0; i <= wildsea.ResourceSoftCap; i++ {
		_, err := s.orch.AddResource(s.ctx, &charorch.AddResourceInput{
			ID: char.ID, Bucket: "salvage", Name: fmt.Sprintf("Spar %d", i),
		})
		s.Require().NoError(err)
	}

	out, err = s.orch.ValidateForPlay(s.ctx, &charorch.ValidateForPlayInput{ID: char.ID})
	s.Require().NoError(err)
	s.Empty(out.Failures)
	s.True(out.OverResourceCap)

	// The cap is advisory: finalization still goes through.
	finalized, err := s.orch.FinalizeCreation(s.ctx, &charorch.FinalizeCreationInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(wildsea.ModePlay, finalized.Character.Mode)
}

func (s *orchestratorTestSuite) TestFinalizeCreation() {
	char := s.createComplete()

	out, err := s.orch.FinalizeCreation(s.ctx, &charorch.FinalizeCreationInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(wildsea.ModePlay, out.Character.Mode)

	// Starting resources arrive from all three traits.
	s.Equal(3, out.Character.Resources.Total())
	s.Len(out.Character.Resources.Salvage, 2)
	s.Len(out.Character.Resources.Charts, 1)
}

func (s *orchestratorTestSuite) TestFinalizeCreationBlockedWhenIncomplete() {
	char := s.create()

	_, err := s.orch.FinalizeCreation(s.ctx, &charorch.FinalizeCreationInput{ID: char.ID})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestSetModeBetweenPlayAndAdvancement() {
	char := s.createInMode(wildsea.ModePlay)

	out, err := s.orch.SetMode(s.ctx, &charorch.SetModeInput{ID: char.ID, Mode: wildsea.ModeAdvancement})
	s.Require().NoError(err)
	s.Equal(wildsea.ModeAdvancement, out.Character.Mode)

	out, err = s.orch.SetMode(s.ctx, &charorch.SetModeInput{ID: char.ID, Mode: wildsea.ModePlay})
	s.Require().NoError(err)
	s.Equal(wildsea.ModePlay, out.Character.Mode)
}

func (s *orchestratorTestSuite) TestSetModeBlockedDuringCreation() {
	char := s.create()

	_, err := s.orch.SetMode(s.ctx, &charorch.SetModeInput{ID: char.ID, Mode: wildsea.ModePlay})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestGetReturnsDefenseAggregation() {
	char := s.createComplete()

	// Fiery Heart resists Flame; Ashen Ward (Char) is not selected, so
	// Flame stays merely resistant.
	out, err := s.orch.Get(s.ctx, &charorch.GetInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(damagetype.DefenseResistant, out.Defenses["Flame"])
	s.Equal(damagetype.DefenseResistant, out.Defenses["Keen"])
}

func (s *orchestratorTestSuite) TestExportImportMintsFreshIdentity() {
	char := s.createComplete()

	exported, err := s.orch.Export(s.ctx, &charorch.ExportInput{ID: char.ID})
	s.Require().NoError(err)

	imported, err := s.orch.Import(s.ctx, &charorch.ImportInput{
		SessionID: "sess_2",
		Data:      exported.Data,
	})
	s.Require().NoError(err)
	s.NotEqual(char.ID, imported.Character.ID)
	s.Equal("sess_2", imported.Character.SessionID)
	s.Equal(char.Name, imported.Character.Name)
	s.Equal(char.Bloodline, imported.Character.Bloodline)
	s.Len(imported.Character.SelectedAspects, len(char.SelectedAspects))
}

func (s *orchestratorTestSuite) TestImportRejectsMalformedDocument() {
	_, err := s.orch.Import(s.ctx, &charorch.ImportInput{Data: []byte("not json")})
	s.Require().Error(err)
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(orchestratorTestSuite))
}
