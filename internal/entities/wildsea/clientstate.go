package wildsea

// ClientState is per-client view state that is never persisted and
// never synced between clients. The mode stored on an entity is
// canonical and gates every construction invariant; a client may
// override how it renders an entity (for example previewing the ship's
// upgrade layout mid-play) without changing what the rules engine
// enforces or what other clients see.
type ClientState struct {
	// ShipModeOverride replaces the rendered ship mode when non-nil.
	ShipModeOverride *Mode `json:"-"`

	// ViewOverride replaces the session's ActiveView for this client
	// when non-empty.
	ViewOverride ActiveView `json:"-"`
}

// EffectiveShipMode returns the mode this client renders the ship in.
// Rules stay gated on the canonical mode regardless.
func (cs *ClientState) EffectiveShipMode(canonical Mode) Mode {
	if cs != nil && cs.ShipModeOverride != nil {
		return *cs.ShipModeOverride
	}
	return canonical
}

// EffectiveView returns the view this client renders.
func (cs *ClientState) EffectiveView(canonical ActiveView) ActiveView {
	if cs != nil && cs.ViewOverride != "" {
		return cs.ViewOverride
	}
	return canonical
}
