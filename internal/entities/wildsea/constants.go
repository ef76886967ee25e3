package wildsea

// Mode is an entity's lifecycle mode. Characters move creation → play →
// advancement; ships move creation → play → upgrade. The mode stored on
// the entity is canonical and gates every construction invariant; any
// per-viewer override lives client-side only and never syncs.
type Mode string

const (
	ModeCreation    Mode = "creation"
	ModePlay        Mode = "play"
	ModeAdvancement Mode = "advancement"
	ModeUpgrade     Mode = "upgrade"
)

// DamageState is the state of one track box.
type DamageState string

const (
	DamageDefault DamageState = "default"
	DamageMarked  DamageState = "marked"
	DamageBurned  DamageState = "burned"
)

// SourceCategory identifies which core trait an aspect is drawn from.
type SourceCategory string

const (
	SourceBloodline SourceCategory = "Bloodline"
	SourceOrigin    SourceCategory = "Origin"
	SourcePost      SourceCategory = "Post"
)

// MilestoneScale distinguishes minor from major milestones.
type MilestoneScale string

const (
	MilestoneMinor MilestoneScale = "Minor"
	MilestoneMajor MilestoneScale = "Major"
)

// Character creation budgets and advancement caps.
const (
	AspectBudget         = 4
	AspectAdvancementCap = 7
	EdgeBudget           = 3
	SkillPointBudget     = 8
	CreationRankCap      = 2
	RankCap              = 3
	MaxTrackSize         = 5
	ResourceSoftCap      = 6

	// BaselineLanguage is known by every character at a fixed rank,
	// cannot be decremented during creation, and is exempt from the
	// skill-point budget.
	BaselineLanguage     = "Low Sour"
	BaselineLanguageRank = 3

	DriveSlots = 3
	MireSlots  = 3

	MinTaskTicks = 1
	MaxTaskTicks = 6
)

// Ship stakes accounting.
const (
	BaseStakes    = 6
	StakesPerCrew = 3
)

// Journey clock bounds.
const (
	MinClockMax = 1
	MaxClockMax = 6
)

// RatingNames are the six ship ratings, each derived from base 1 plus
// selected-part bonuses.
var RatingNames = []string{"Armour", "Seals", "Speed", "Saws", "Stealth", "Tilt"}

// BaseRating is the floor every rating starts from.
const BaseRating = 1
