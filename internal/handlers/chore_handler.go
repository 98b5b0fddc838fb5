package handlers

import (
	"net/http"
	"time"

	"chorestar/internal/models"
	"chorestar/internal/service"
)

// ChoreHandler handles chore endpoints
type ChoreHandler struct {
	choreService *service.ChoreService
}

// NewChoreHandler creates a new chore handler
func NewChoreHandler(choreService *service.ChoreService) *ChoreHandler {
	return &ChoreHandler{choreService: choreService}
}

type choreRequest struct {
	ChildID     int64  `json:"child_id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	RewardCents int    `json:"reward_cents"`
	Days        string `json:"days"`
}

type choreView struct {
	ID          int64  `json:"id"`
	ChildID     int64  `json:"child_id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	RewardCents int    `json:"reward_cents"`
	Days        string `json:"days"`
	Completed   bool   `json:"completed"`
}

func viewChore(c *models.Chore, completed bool) choreView {
	return choreView{
		ID:          c.ID,
		ChildID:     c.ChildID,
		Title:       c.Title,
		Icon:        c.Icon,
		RewardCents: c.RewardCents,
		Days:        c.Days,
		Completed:   completed,
	}
}

// requestDate returns the date query parameter or today
func requestDate(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return time.Now().Format("2006-01-02")
}

// List returns a child's chores with completion state for a date
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "childId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	chores, err := h.choreService.ListChores(family.FamilyUserID, childID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to list chores")
		return
	}

	views := make([]choreView, 0, len(chores))
	for i := range chores {
		views = append(views, viewChore(&chores[i].Chore, chores[i].Completed))
	}
	respondJSON(w, http.StatusOK, views)
}

// Create adds a chore to a child in the caller's family
func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	chore, err := h.choreService.CreateChore(family.FamilyUserID, req.ChildID, req.Title, req.Icon, req.RewardCents, req.Days)
	if err != nil {
		respondServiceError(w, err, "Failed to create chore")
		return
	}
	respondJSON(w, http.StatusCreated, viewChore(chore, false))
}

// Update modifies a chore
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	choreID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid chore id", "", nil)
		return
	}

	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	chore, err := h.choreService.UpdateChore(family.FamilyUserID, choreID, req.Title, req.Icon, req.RewardCents, req.Days)
	if err != nil {
		respondServiceError(w, err, "Failed to update chore")
		return
	}
	respondJSON(w, http.StatusOK, viewChore(chore, false))
}

// Delete removes a chore
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	choreID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid chore id", "", nil)
		return
	}

	if err := h.choreService.DeleteChore(family.FamilyUserID, choreID); err != nil {
		respondServiceError(w, err, "Failed to delete chore")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Toggle flips a chore's completion for a date
func (h *ChoreHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	choreID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid chore id", "", nil)
		return
	}

	done, err := h.choreService.ToggleCompletion(family.FamilyUserID, choreID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to toggle chore")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

// WeeklySummary returns a child's completion totals for the week ending on
// the requested date.
func (h *ChoreHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "childId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	summary, err := h.choreService.WeeklySummary(family.FamilyUserID, childID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to build weekly summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
