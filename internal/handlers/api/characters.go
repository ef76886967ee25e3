package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftcrew/wildsea-api/internal/errors"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
)

func (h *Handler) characterRoutes(r chi.Router) {
	r.Post("/", h.createCharacter)
	r.Get("/", h.listCharacters)
	r.Post("/import", h.importCharacter)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getCharacter)
		r.Delete("/", h.deleteCharacter)
		r.Get("/export", h.exportCharacter)

		r.Post("/name", h.setCharacterName)
		r.Post("/trait", h.updateCoreTrait)
		r.Post("/aspects/toggle", h.toggleAspect)
		r.Post("/aspects/damage", h.cycleAspectDamage)
		r.Post("/aspects/track", h.expandAspectTrack)
		r.Post("/aspects/damage-types", h.selectAspectDamageTypes)
		r.Post("/edges/toggle", h.toggleEdge)
		r.Post("/skills/adjust", h.adjustSkill)
		r.Post("/languages/adjust", h.adjustLanguage)

		r.Post("/milestones", h.addMilestone)
		r.Patch("/milestones/{milestoneId}", h.updateMilestone)
		r.Delete("/milestones/{milestoneId}", h.removeMilestone)

		r.Post("/drives", h.setDrive)
		r.Post("/mires", h.setMire)
		r.Post("/mires/marks", h.toggleMireMark)

		r.Post("/resources", h.addResource)
		r.Patch("/resources/{bucket}/{resourceId}", h.updateResource)
		r.Delete("/resources/{bucket}/{resourceId}", h.removeResource)

		r.Post("/tasks", h.addTask)
		r.Post("/tasks/{taskId}/tick", h.tickTask)
		r.Patch("/tasks/{taskId}", h.updateTask)
		r.Delete("/tasks/{taskId}", h.removeTask)

		r.Post("/random", h.generateRandomCharacter)
		r.Get("/validation", h.validateCharacter)
		r.Post("/finalize", h.finalizeCharacter)
		r.Post("/mode", h.setCharacterMode)
	})
}

func (h *Handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	input := &charorch.CreateInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ClientID = clientID(r)

	out, err := h.characters.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.Get(r.Context(), &charorch.GetInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, r, errors.InvalidArgument("session_id is required"))
		return
	}

	out, err := h.characters.List(r.Context(), &charorch.ListInput{SessionID: sessionID})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	_, err := h.characters.Delete(r.Context(), &charorch.DeleteInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (h *Handler) exportCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.Export(r.Context(), &charorch.ExportInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

// importCharacter takes the raw export document as the request body;
// the target session rides in the query string.
func (h *Handler) importCharacter(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, r, errors.InvalidArgument("failed to read request body"))
		return
	}

	out, err := h.characters.Import(r.Context(), &charorch.ImportInput{
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

func (h *Handler) setCharacterName(w http.ResponseWriter, r *http.Request) {
	input := &charorch.SetNameInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.SetName(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) updateCoreTrait(w http.ResponseWriter, r *http.Request) {
	input := &charorch.UpdateCoreTraitInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.UpdateCoreTrait(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) toggleAspect(w http.ResponseWriter, r *http.Request) {
	input := &charorch.ToggleAspectInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.ToggleAspect(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) toggleEdge(w http.ResponseWriter, r *http.Request) {
	input := &charorch.ToggleEdgeInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.ToggleEdge(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) adjustSkill(w http.ResponseWriter, r *http.Request) {
	input := &charorch.AdjustSkillInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.AdjustSkill(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) adjustLanguage(w http.ResponseWriter, r *http.Request) {
	input := &charorch.AdjustLanguageInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.AdjustLanguage(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) cycleAspectDamage(w http.ResponseWriter, r *http.Request) {
	input := &charorch.CycleAspectDamageInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.CycleAspectDamage(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) expandAspectTrack(w http.ResponseWriter, r *http.Request) {
	input := &charorch.ExpandAspectTrackInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.ExpandAspectTrack(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) selectAspectDamageTypes(w http.ResponseWriter, r *http.Request) {
	input := &charorch.SelectAspectDamageTypesInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.SelectAspectDamageTypes(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) addMilestone(w http.ResponseWriter, r *http.Request) {
	input := &charorch.AddMilestoneInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.AddMilestone(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	input := &charorch.UpdateMilestoneInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.MilestoneID = chi.URLParam(r, "milestoneId")
	input.ClientID = clientID(r)

	out, err := h.characters.UpdateMilestone(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) removeMilestone(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.RemoveMilestone(r.Context(), &charorch.RemoveMilestoneInput{
		ID:          chi.URLParam(r, "id"),
		MilestoneID: chi.URLParam(r, "milestoneId"),
		ClientID:    clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setDrive(w http.ResponseWriter, r *http.Request) {
	input := &charorch.SetDriveInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.SetDrive(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setMire(w http.ResponseWriter, r *http.Request) {
	input := &charorch.SetMireInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.SetMire(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) toggleMireMark(w http.ResponseWriter, r *http.Request) {
	input := &charorch.ToggleMireMarkInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.ToggleMireMark(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) addResource(w http.ResponseWriter, r *http.Request) {
	input := &charorch.AddResourceInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.AddResource(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) updateResource(w http.ResponseWriter, r *http.Request) {
	input := &charorch.UpdateResourceInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.Bucket = chi.URLParam(r, "bucket")
	input.ResourceID = chi.URLParam(r, "resourceId")
	input.ClientID = clientID(r)

	out, err := h.characters.UpdateResource(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) removeResource(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.RemoveResource(r.Context(), &charorch.RemoveResourceInput{
		ID:         chi.URLParam(r, "id"),
		Bucket:     chi.URLParam(r, "bucket"),
		ResourceID: chi.URLParam(r, "resourceId"),
		ClientID:   clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) addTask(w http.ResponseWriter, r *http.Request) {
	input := &charorch.AddTaskInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.AddTask(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, out)
}

func (h *Handler) tickTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.TickTask(r.Context(), &charorch.TickTaskInput{
		ID:       chi.URLParam(r, "id"),
		TaskID:   chi.URLParam(r, "taskId"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	input := &charorch.UpdateTaskInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.TaskID = chi.URLParam(r, "taskId")
	input.ClientID = clientID(r)

	out, err := h.characters.UpdateTask(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) removeTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.RemoveTask(r.Context(), &charorch.RemoveTaskInput{
		ID:       chi.URLParam(r, "id"),
		TaskID:   chi.URLParam(r, "taskId"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) generateRandomCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.GenerateRandom(r.Context(), &charorch.GenerateRandomInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) validateCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.ValidateForPlay(r.Context(), &charorch.ValidateForPlayInput{
		ID: chi.URLParam(r, "id"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) finalizeCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characters.FinalizeCreation(r.Context(), &charorch.FinalizeCreationInput{
		ID:       chi.URLParam(r, "id"),
		ClientID: clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) setCharacterMode(w http.ResponseWriter, r *http.Request) {
	input := &charorch.SetModeInput{}
	if err := decode(r, input); err != nil {
		respondError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.ClientID = clientID(r)

	out, err := h.characters.SetMode(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, out)
}
