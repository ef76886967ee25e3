package wildsea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/rules/damagetype"
)

func TestNewCharacterSeedsBaselineLanguage(t *testing.T) {
	c := wildsea.NewCharacter("char_1")

	assert.Equal(t, wildsea.ModeCreation, c.Mode)
	assert.Equal(t, wildsea.BaselineLanguageRank, c.Languages[wildsea.BaselineLanguage])
	assert.Zero(t, c.SkillPointsSpent(), "baseline language is budget-exempt")
}

func TestSkillPointsSpentExcludesBaseline(t *testing.T) {
	c := wildsea.NewCharacter("char_1")
	c.Skills["Hack"] = 2
	c.Skills["Wavewalk"] = 1
	c.Languages["Saprekk"] = 2

	assert.Equal(t, 5, c.SkillPointsSpent())
}

func TestAspectIDIsStable(t *testing.T) {
	assert.Equal(t, "Ardent-Fiery Heart", wildsea.AspectID("Ardent", "Fiery Heart"))
}

func TestRankCapByMode(t *testing.T) {
	c := wildsea.NewCharacter("char_1")
	assert.Equal(t, 2, c.RankCap())

	c.Mode = wildsea.ModePlay
	assert.Equal(t, 3, c.RankCap())

	c.Mode = wildsea.ModeAdvancement
	assert.Equal(t, 3, c.RankCap())
}

func TestDefensesPromotion(t *testing.T) {
	keenResist := []damagetype.Grant{{
		Category:  damagetype.CategoryResistance,
		Selection: damagetype.SelectionFixed,
		Options:   []string{"Keen"},
	}}

	c := wildsea.NewCharacter("char_1")
	c.SelectedAspects = []wildsea.Aspect{
		{ID: "Ardent-Ember Shell", DamageTypes: keenResist},
	}
	assert.Equal(t, damagetype.DefenseResistant, c.Defenses()["Keen"])

	c.SelectedAspects = append(c.SelectedAspects,
		wildsea.Aspect{ID: "Ektus-Thorned Hide", DamageTypes: keenResist})
	assert.Equal(t, damagetype.DefenseImmune, c.Defenses()["Keen"])
}

func TestResourceBuckets(t *testing.T) {
	c := wildsea.NewCharacter("char_1")
	for _, name := range []string{"charts", "salvage", "specimens", "whispers"} {
		assert.NotNil(t, c.Resources.Bucket(name), "bucket %s", name)
	}
	assert.Nil(t, c.Resources.Bucket("treasure"))

	c.Resources.Charts = append(c.Resources.Charts, wildsea.NamedItem{ID: "res_1", Name: "Reef chart"})
	c.Resources.Whispers = append(c.Resources.Whispers, wildsea.NamedItem{ID: "res_2", Name: "A name unspoken"})
	assert.Equal(t, 2, c.Resources.Total())
}
