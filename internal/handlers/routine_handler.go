package handlers

import (
	"net/http"

	"chorestar/internal/models"
	"chorestar/internal/service"
)

// RoutineHandler handles routine endpoints
type RoutineHandler struct {
	routineService *service.RoutineService
}

// NewRoutineHandler creates a new routine handler
func NewRoutineHandler(routineService *service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

type routineRequest struct {
	ChildID   int64  `json:"child_id"`
	Title     string `json:"title"`
	TimeOfDay string `json:"time_of_day"`
	SortOrder int    `json:"sort_order"`
}

type routineView struct {
	ID        int64  `json:"id"`
	ChildID   int64  `json:"child_id"`
	Title     string `json:"title"`
	TimeOfDay string `json:"time_of_day"`
	SortOrder int    `json:"sort_order"`
	Completed bool   `json:"completed"`
}

func viewRoutine(rt *models.Routine, completed bool) routineView {
	return routineView{
		ID:        rt.ID,
		ChildID:   rt.ChildID,
		Title:     rt.Title,
		TimeOfDay: rt.TimeOfDay,
		SortOrder: rt.SortOrder,
		Completed: completed,
	}
}

// List returns a child's routine items with completion state for a date
func (h *RoutineHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "childId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	routines, err := h.routineService.ListRoutines(family.FamilyUserID, childID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to list routines")
		return
	}

	views := make([]routineView, 0, len(routines))
	for i := range routines {
		views = append(views, viewRoutine(&routines[i].Routine, routines[i].Completed))
	}
	respondJSON(w, http.StatusOK, views)
}

// Create adds a routine item for a child
func (h *RoutineHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req routineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	routine, err := h.routineService.CreateRoutine(family.FamilyUserID, req.ChildID, req.Title, req.TimeOfDay, req.SortOrder)
	if err != nil {
		respondServiceError(w, err, "Failed to create routine")
		return
	}
	respondJSON(w, http.StatusCreated, viewRoutine(routine, false))
}

// Update modifies a routine item
func (h *RoutineHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	routineID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id", "", nil)
		return
	}

	var req routineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	routine, err := h.routineService.UpdateRoutine(family.FamilyUserID, routineID, req.Title, req.TimeOfDay, req.SortOrder)
	if err != nil {
		respondServiceError(w, err, "Failed to update routine")
		return
	}
	respondJSON(w, http.StatusOK, viewRoutine(routine, false))
}

// Delete removes a routine item
func (h *RoutineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	routineID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id", "", nil)
		return
	}

	if err := h.routineService.DeleteRoutine(family.FamilyUserID, routineID); err != nil {
		respondServiceError(w, err, "Failed to delete routine")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Toggle flips a routine item's completion for a date
func (h *RoutineHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	routineID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id", "", nil)
		return
	}

	done, err := h.routineService.ToggleCompletion(family.FamilyUserID, routineID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to toggle routine")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": done})
}
