package wildsea

// Ship is a crew's vessel sheet.
type Ship struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId,omitempty"`
	Mode      Mode   `json:"mode"`

	Name                string `json:"name"`
	AnticipatedCrewSize int    `json:"anticipatedCrewSize"`
	AdditionalStakes    int    `json:"additionalStakes"`

	// Size and Frame are single-select; Hull, Bite, and Engine are
	// multi-select toggles.
	Size   *Part  `json:"size"`
	Frame  *Part  `json:"frame"`
	Hull   []Part `json:"hull"`
	Bite   []Part `json:"bite"`
	Engine []Part `json:"engine"`

	Motifs             []Part `json:"motifs"`
	GeneralAdditions   []Part `json:"generalAdditions"`
	BounteousAdditions []Part `json:"bounteousAdditions"`
	Rooms              []Part `json:"rooms"`
	Armaments          []Part `json:"armaments"`

	Undercrew Undercrew `json:"undercrew"`

	// RatingDamage and UndercrewDamage use only the default and burned
	// states; box arrays are lazily initialized on first cycle.
	RatingDamage    map[string][]DamageState `json:"ratingDamage"`
	UndercrewDamage map[string][]DamageState `json:"undercrewDamage"`

	Cargo      []NamedItem `json:"cargo"`
	Passengers []NamedItem `json:"passengers"`

	Journey Journey `json:"journey"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Part is a ship design part or fitting, costing stakes and optionally
// contributing rating bonuses.
type Part struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Stakes      int           `json:"stakes"`
	Bonuses     []RatingBonus `json:"bonuses,omitempty"`
}

// RatingBonus is one part's contribution to a named rating.
type RatingBonus struct {
	Rating string `json:"rating"`
	Value  int    `json:"value"`
}

// UndercrewMember is an officer, gang, or pack serving below decks. The
// Track is parsed from a "[N-Track]" marker in the member's name at
// selection time; zero when the name carries no marker.
type UndercrewMember struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Stakes      int           `json:"stakes"`
	Bonuses     []RatingBonus `json:"bonuses,omitempty"`
	Track       int           `json:"track"`
}

// Undercrew groups the three undercrew categories.
type Undercrew struct {
	Officers []UndercrewMember `json:"officers"`
	Gangs    []UndercrewMember `json:"gangs"`
	Packs    []UndercrewMember `json:"packs"`
}

// All returns every undercrew member across categories.
func (u Undercrew) All() []UndercrewMember {
	all := make([]UndercrewMember, 0, len(u.Officers)+len(u.Gangs)+len(u.Packs))
	all = append(all, u.Officers...)
	all = append(all, u.Gangs...)
	all = append(all, u.Packs...)
	return all
}

// Journey tracks an in-progress travel sequence and its four clocks.
type Journey struct {
	Active bool   `json:"active"`
	Name   string `json:"name"`
	Clocks Clocks `json:"clocks"`
}

// Clocks holds the four journey clocks.
type Clocks struct {
	Progress    Clock `json:"progress"`
	Risk        Clock `json:"risk"`
	Pathfinding Clock `json:"pathfinding"`
	Riot        Clock `json:"riot"`
}

// Clock is a 1-6 tick progress tracker.
type Clock struct {
	Max    int `json:"max"`
	Filled int `json:"filled"`
}

// ClockByKind returns the named clock, or nil for an unknown kind.
func (c *Clocks) ClockByKind(kind string) *Clock {
	switch kind {
	case "progress":
		return &c.Progress
	case "risk":
		return &c.Risk
	case "pathfinding":
		return &c.Pathfinding
	case "riot":
		return &c.Riot
	}
	return nil
}

// NewShip returns a blank ship in creation mode.
func NewShip(id string) *Ship {
	return &Ship{
		ID:                  id,
		Mode:                ModeCreation,
		AnticipatedCrewSize: 1,
		Hull:                []Part{},
		Bite:                []Part{},
		Engine:              []Part{},
		RatingDamage:        map[string][]DamageState{},
		UndercrewDamage:     map[string][]DamageState{},
		Journey: Journey{
			Clocks: Clocks{
				Progress:    Clock{Max: MaxClockMax},
				Risk:        Clock{Max: MaxClockMax},
				Pathfinding: Clock{Max: MaxClockMax},
				Riot:        Clock{Max: MaxClockMax},
			},
		},
	}
}

// SelectedParts returns every selected part and fitting (not undercrew).
func (s *Ship) SelectedParts() []Part {
	var parts []Part
	if s.Size != nil {
		parts = append(parts, *s.Size)
	}
	if s.Frame != nil {
		parts = append(parts, *s.Frame)
	}
	parts = append(parts, s.Hull...)
	parts = append(parts, s.Bite...)
	parts = append(parts, s.Engine...)
	parts = append(parts, s.Motifs...)
	parts = append(parts, s.GeneralAdditions...)
	parts = append(parts, s.BounteousAdditions...)
	parts = append(parts, s.Rooms...)
	parts = append(parts, s.Armaments...)
	return parts
}

// Ratings derives the six ratings from current selections: base 1 plus
// every bonus naming the rating. Recomputed every call; selections can
// be toggled off, so nothing is cached.
func (s *Ship) Ratings() map[string]int {
	ratings := make(map[string]int, len(RatingNames))
	for _, name := range RatingNames {
		ratings[name] = BaseRating
	}
	apply := func(bonuses []RatingBonus) {
		for _, b := range bonuses {
			if _, ok := ratings[b.Rating]; ok {
				ratings[b.Rating] += b.Value
			}
		}
	}
	for _, p := range s.SelectedParts() {
		apply(p.Bonuses)
	}
	for _, m := range s.Undercrew.All() {
		apply(m.Bonuses)
	}
	return ratings
}

// StakesSpent sums stakes over every selected part, fitting, and
// undercrew member. Derived, never stored.
func (s *Ship) StakesSpent() int {
	total := 0
	for _, p := range s.SelectedParts() {
		total += p.Stakes
	}
	for _, m := range s.Undercrew.All() {
		total += m.Stakes
	}
	return total
}

// StakesBudget derives the stakes budget from crew size. Overspending
// is advisory during creation; only part presence hard-gates
// finalization.
func (s *Ship) StakesBudget() int {
	return BaseStakes + StakesPerCrew*s.AnticipatedCrewSize + s.AdditionalStakes
}
