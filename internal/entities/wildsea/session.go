package wildsea

// ActiveView selects which entity a session's viewers see by default.
type ActiveView string

const (
	ViewCharacter ActiveView = "character"
	ViewShip      ActiveView = "ship"
)

// Session groups one ship and N characters into a shared play session.
// It holds only foreign references; the entities themselves are
// independently addressable rows.
type Session struct {
	ID       string `json:"id"`
	CrewName string `json:"crewName"`

	ActiveShipID       string     `json:"activeShipId,omitempty"`
	ActiveCharacterIDs []string   `json:"activeCharacterIds"`
	ActiveCharacterID  string     `json:"activeCharacterId,omitempty"`
	ActiveView         ActiveView `json:"activeView"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewSession returns an empty session for a crew.
func NewSession(id, crewName string) *Session {
	return &Session{
		ID:                 id,
		CrewName:           crewName,
		ActiveCharacterIDs: []string{},
		ActiveView:         ViewCharacter,
	}
}

// HasCharacter reports whether the character id is in the crew list.
func (s *Session) HasCharacter(id string) bool {
	for _, cid := range s.ActiveCharacterIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// AddCharacter appends a character to the crew list. The first
// character added becomes active.
func (s *Session) AddCharacter(id string) {
	if s.HasCharacter(id) {
		return
	}
	s.ActiveCharacterIDs = append(s.ActiveCharacterIDs, id)
	if s.ActiveCharacterID == "" {
		s.ActiveCharacterID = id
	}
}

// RemoveCharacter removes a character from the crew list. Removing the
// active character promotes the next id in list order, or clears the
// active character when the list empties.
func (s *Session) RemoveCharacter(id string) {
	idx := -1
	for i, cid := range s.ActiveCharacterIDs {
		if cid == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.ActiveCharacterIDs = append(s.ActiveCharacterIDs[:idx], s.ActiveCharacterIDs[idx+1:]...)

	if s.ActiveCharacterID == id {
		if len(s.ActiveCharacterIDs) == 0 {
			s.ActiveCharacterID = ""
		} else if idx < len(s.ActiveCharacterIDs) {
			s.ActiveCharacterID = s.ActiveCharacterIDs[idx]
		} else {
			s.ActiveCharacterID = s.ActiveCharacterIDs[0]
		}
	}
}
