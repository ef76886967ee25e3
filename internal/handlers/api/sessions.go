package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	sessorch "github.com/driftcrew/wildsea-api/internal/orchestrators/session"
)

func (h *Handler) sessionRoutes(r chi.Router) {
	r.Post("/", h.createSession)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Get("/stream", h.streamSession)

		r.Post("/crew-name", h.setCrewName)
		r.Post("/characters", h.addSessionCharacter)
		r.Delete("/characters/{characterId}", h.removeSessionCharacter)
		r.Post("/ship", h.setSessionShip)
		r.Post("/active-character", h.setActiveCharacter)
		r.Post("/view", h.setActiveView)
	})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.CreateInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ClientID = clientID(r)

	out, err := h.sessions.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.Get(r.Context(), &sessorch.GetInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	_, err := h.sessions.Delete(r.Context(), &sessorch.DeleteInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (h *Handler) setCrewName(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.SetCrewNameInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.sessions.SetCrewName(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) addSessionCharacter(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.AddCharacterInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.SessionID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.sessions.AddCharacter(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) removeSessionCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.RemoveCharacter(r.Context(), &sessorch.RemoveCharacterInput{
		SessionID:   chi.URLParam(r, "id"),
		CharacterID: chi.URLParam(r, "characterId"),
		ClientID:    clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setSessionShip(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.SetShipInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.SessionID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.sessions.SetShip(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setActiveCharacter(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.SetActiveCharacterInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.SessionID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.sessions.SetActiveCharacter(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setActiveView(w http.ResponseWriter, r *http.Request) {
	input := &sessorch.SetActiveViewInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.SessionID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.sessions.SetActiveView(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}
