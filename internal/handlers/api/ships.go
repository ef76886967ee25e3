package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftcrew/wildsea-api/internal/errors"
	shiporch "github.com/driftcrew/wildsea-api/internal/orchestrators/ship"
)

func (h *Handler) shipRoutes(r chi.Router) {
	r.Post("/", h.createShip)
	r.Get("/", h.listShips)
	r.Post("/import", h.importShip)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getShip)
		r.Delete("/", h.deleteShip)
		r.Get("/export", h.exportShip)

		r.Post("/name", h.setShipName)
		r.Post("/crew-size", h.setCrewSize)
		r.Post("/additional-stakes", h.setAdditionalStakes)

		r.Post("/parts", h.selectPart)
		r.Post("/fittings", h.selectFitting)
		r.Post("/undercrew", h.selectUndercrew)

		r.Post("/ratings/damage", h.cycleRatingDamage)
		r.Post("/undercrew/damage", h.cycleUndercrewDamage)

		r.Post("/journey/toggle", h.toggleJourneyActive)
		r.Post("/journey/name", h.setJourneyName)
		r.Post("/journey/clock-max", h.setClockMax)
		r.Post("/journey/clock-tick", h.toggleClockTick)

		r.Post("/items", h.addShipItem)
		r.Patch("/items/{list}/{itemId}", h.updateShipItem)
		r.Delete("/items/{list}/{itemId}", h.removeShipItem)

		r.Get("/validation", h.validateShip)
		r.Post("/finalize", h.finalizeShip)
		r.Post("/mode", h.setShipMode)
	})
}

func (h *Handler) createShip(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.CreateInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ClientID = clientID(r)

	out, err := h.ships.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) getShip(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.Get(r.Context(), &shiporch.GetInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) listShips(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, r, errors.InvalidArgument("session_id is required"))
		return
	}

	out, err := h.ships.List(r.Context(), &shiporch.ListInput{SessionID: sessionID})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) deleteShip(w http.ResponseWriter, r *http.Request) {
	_, err := h.ships.Delete(r.Context(), &shiporch.DeleteInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (h *Handler) exportShip(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.Export(r.Context(), &shiporch.ExportInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

func (h *Handler) importShip(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, r, errors.InvalidArgument("failed to read request body"))
		return
	}

	out, err := h.ships.Import(r.Context(), &shiporch.ImportInput{
		SessionID: r.URL.Query().Get("session_id"),
		Data:      data,
		ClientID:  clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) setShipName(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetNameInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetName(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setCrewSize(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetCrewSizeInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetCrewSize(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setAdditionalStakes(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetAdditionalStakesInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetAdditionalStakes(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) selectPart(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SelectPartInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SelectPart(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) selectFitting(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SelectFittingInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SelectFitting(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) selectUndercrew(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SelectUndercrewInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SelectUndercrew(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) cycleRatingDamage(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.CycleRatingDamageInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.CycleRatingDamage(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) cycleUndercrewDamage(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.CycleUndercrewDamageInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.CycleUndercrewDamage(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) toggleJourneyActive(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.ToggleJourneyActive(r.Context(), &shiporch.ToggleJourneyActiveInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setJourneyName(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetJourneyNameInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetJourneyName(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setClockMax(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetClockMaxInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetClockMax(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) toggleClockTick(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.ToggleClockTickInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.ToggleClockTick(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) addShipItem(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.AddItemInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.AddItem(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) updateShipItem(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.UpdateItemInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.List = chi.URLParam(r, "list")
	input.ItemID = chi.URLParam(r, "itemId")
	input.ClientID = clientID(r)

	out, err := h.ships.UpdateItem(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) removeShipItem(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.RemoveItem(r.Context(), &shiporch.RemoveItemInput{
		ID:       chi.URLParam(r, "id"),
		List:     chi.URLParam(r, "list"),
		ItemID:   chi.URLParam(r, "itemId"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) validateShip(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.ValidateForPlay(r.Context(), &shiporch.ValidateForPlayInput{
		ID: chi.URLParam(r, "id"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) finalizeShip(w http.ResponseWriter, r *http.Request) {
	out, err := h.ships.FinalizeCreation(r.Context(), &shiporch.FinalizeCreationInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setShipMode(w http.ResponseWriter, r *http.Request) {
	input := &shiporch.SetModeInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.ships.SetMode(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}
