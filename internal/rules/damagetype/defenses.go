package damagetype

// DefenseLevel is the character-level protection against a damage type.
type DefenseLevel string

const (
	DefenseResistant DefenseLevel = "resistant"
	DefenseImmune    DefenseLevel = "immune"
)

// AspectGrants is one selected aspect's contribution to a character's
// defenses: its parsed grants plus the player's picks for any choose
// grants, keyed by category.
type AspectGrants struct {
	Grants []Grant
	Chosen map[Category][]string
}

// Defenses aggregates resistance and immunity grants across selected
// aspects. A type resisted by two or more distinct aspects is promoted
// to immune; a single-source resistance stays resistant. Explicit
// immunity grants are immune regardless of count. This promotion is a
// game-balance rule, not presentation.
func Defenses(aspects []AspectGrants) map[string]DefenseLevel {
	resistCounts := make(map[string]int)
	immune := make(map[string]bool)

	for _, a := range aspects {
		// Count each type at most once per aspect so a single aspect
		// cannot promote itself to immunity.
		resisted := make(map[string]bool)
		for _, g := range a.Grants {
			switch g.Category {
			case CategoryResistance:
				switch g.Selection {
				case SelectionFixed:
					for _, t := range g.Options {
						resisted[NormalizeType(t)] = true
					}
				case SelectionChoose:
					for _, t := range a.Chosen[CategoryResistance] {
						resisted[NormalizeType(t)] = true
					}
				}
			case CategoryImmunity:
				for _, t := range g.Options {
					immune[NormalizeType(t)] = true
				}
			}
		}
		for t := range resisted {
			resistCounts[t]++
		}
	}

	defenses := make(map[string]DefenseLevel)
	for t, n := range resistCounts {
		if n >= 2 {
			defenses[t] = DefenseImmune
		} else {
			defenses[t] = DefenseResistant
		}
	}
	for t := range immune {
		defenses[t] = DefenseImmune
	}
	return defenses
}
