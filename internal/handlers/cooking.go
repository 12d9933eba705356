package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/findosh/myrecipes/internal/cooking"
	"github.com/findosh/myrecipes/internal/models"
)

// StartCooking opens a cooking session for {"recipeId": ...}
func (h *Handler) StartCooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipeID string `json:"recipeId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.RecipeID) == "" {
		h.fail(w, r, fmt.Errorf("%w: recipeId is required", models.ErrValidation), "")
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), req.RecipeID)
	if err != nil {
		h.fail(w, r, err, "Recipe not found")
		return
	}
	state, err := h.cooking.Open(recipe)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, state)
}

// CookingState returns the current state of a session
func (h *Handler) CookingState(w http.ResponseWriter, r *http.Request) {
	state, err := h.cooking.State(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Cooking session not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, state)
}

// StopCooking closes a session
func (h *Handler) StopCooking(w http.ResponseWriter, r *http.Request) {
	if err := h.cooking.Close(r.PathValue("id")); err != nil {
		h.fail(w, r, err, "Cooking session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CookingEvents returns the notifications a session has produced
func (h *Handler) CookingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.cooking.Events(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Cooking session not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, events)
}

type cookingRequest struct {
	Step    *int `json:"step"`
	Index   *int `json:"index"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
}

// readCookingRequest decodes an optional body. An empty body is allowed.
func readCookingRequest(w http.ResponseWriter, r *http.Request) (cookingRequest, error) {
	var req cookingRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return req, nil
}

// CookingAction applies a navigation or checklist action to a session:
// advance, retreat, jump, complete or ingredient
func (h *Handler) CookingAction(w http.ResponseWriter, r *http.Request) {
	req, err := readCookingRequest(w, r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var apply func(*cooking.Session) error
	switch r.PathValue("action") {
	case "advance":
		apply = func(s *cooking.Session) error {
			s.Advance()
			return nil
		}
	case "retreat":
		apply = func(s *cooking.Session) error {
			s.Retreat()
			return nil
		}
	case "jump":
		apply = func(s *cooking.Session) error {
			if req.Step == nil {
				return fmt.Errorf("%w: step is required", models.ErrValidation)
			}
			if err := checkIndex("step", *req.Step, s.StepCount()); err != nil {
				return err
			}
			s.JumpTo(*req.Step)
			return nil
		}
	case "complete":
		apply = func(s *cooking.Session) error {
			step := s.CurrentStep()
			if req.Step != nil {
				step = *req.Step
			}
			if err := checkIndex("step", step, s.StepCount()); err != nil {
				return err
			}
			s.CompleteStep(r.Context(), step)
			return nil
		}
	case "ingredient":
		apply = func(s *cooking.Session) error {
			if req.Index == nil {
				return fmt.Errorf("%w: index is required", models.ErrValidation)
			}
			if err := checkIndex("ingredient", *req.Index, s.IngredientCount()); err != nil {
				return err
			}
			s.ToggleIngredient(*req.Index)
			return nil
		}
	default:
		h.jsonError(w, "Unknown cooking action", http.StatusNotFound)
		return
	}

	h.applyCooking(w, r, apply)
}

// TimerAction drives the session's countdown: start, pause, resume or reset.
// start takes minutes, or seconds when set.
func (h *Handler) TimerAction(w http.ResponseWriter, r *http.Request) {
	req, err := readCookingRequest(w, r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var apply func(*cooking.Session) error
	switch r.PathValue("action") {
	case "start":
		apply = func(s *cooking.Session) error {
			if req.Seconds > 0 {
				s.Timer().StartSeconds(req.Seconds)
			} else {
				s.Timer().Start(req.Minutes)
			}
			return nil
		}
	case "pause":
		apply = func(s *cooking.Session) error {
			s.Timer().Pause()
			return nil
		}
	case "resume":
		apply = func(s *cooking.Session) error {
			s.Timer().Resume()
			return nil
		}
	case "reset":
		apply = func(s *cooking.Session) error {
			s.Timer().Reset()
			return nil
		}
	default:
		h.jsonError(w, "Unknown timer action", http.StatusNotFound)
		return
	}

	h.applyCooking(w, r, apply)
}

func (h *Handler) applyCooking(w http.ResponseWriter, r *http.Request, apply func(*cooking.Session) error) {
	state, err := h.cooking.Do(r.PathValue("id"), apply)
	if err != nil {
		h.fail(w, r, err, "Cooking session not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, state)
}

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s %d out of range [0,%d)", models.ErrValidation, what, i, n)
	}
	return nil
}
