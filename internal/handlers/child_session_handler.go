package handlers

import (
	"net/http"

	"chorestar/internal/security"
	"chorestar/internal/service"
)

// ChildSessionHandler serves the child-facing routes behind a child session
// token. Each request re-checks the child still belongs to the family from
// the token, so removing the child (or moving families) cuts access without
// server-side token state.
type ChildSessionHandler struct {
	childService *service.ChildService
	choreService *service.ChoreService
}

// NewChildSessionHandler creates a new child session handler
func NewChildSessionHandler(childService *service.ChildService, choreService *service.ChoreService) *ChildSessionHandler {
	return &ChildSessionHandler{
		childService: childService,
		choreService: choreService,
	}
}

// Me returns the signed-in child's profile
func (h *ChildSessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetChildClaimsFromContext(r.Context())

	child, err := h.childService.GetChild(claims.FamilyUserID, claims.ChildID)
	if err != nil {
		respondServiceError(w, err, "Failed to load child session")
		return
	}
	respondJSON(w, http.StatusOK, child.Profile())
}

// Chores returns the child's own chore list for a date
func (h *ChildSessionHandler) Chores(w http.ResponseWriter, r *http.Request) {
	claims := GetChildClaimsFromContext(r.Context())

	chores, err := h.choreService.ListChores(claims.FamilyUserID, claims.ChildID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to list child chores")
		return
	}

	views := make([]choreView, 0, len(chores))
	for i := range chores {
		views = append(views, viewChore(&chores[i].Chore, chores[i].Completed))
	}
	respondJSON(w, http.StatusOK, views)
}

// ToggleChore lets the child mark their own chore done or not done. The
// service scopes the chore to the child's family; on top of that the chore
// must belong to this child.
func (h *ChildSessionHandler) ToggleChore(w http.ResponseWriter, r *http.Request) {
	claims := GetChildClaimsFromContext(r.Context())
	choreID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid chore id", "", nil)
		return
	}

	chores, err := h.choreService.ListChores(claims.FamilyUserID, claims.ChildID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to load child chores")
		return
	}
	owned := false
	for i := range chores {
		if chores[i].Chore.ID == choreID {
			owned = true
			break
		}
	}
	if !owned {
		respondServiceError(w, service.ErrChoreNotFound, "")
		return
	}

	done, err := h.choreService.ToggleCompletion(claims.FamilyUserID, choreID, requestDate(r))
	if err != nil {
		respondServiceError(w, err, "Failed to toggle child chore")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

// Logout clears the child session cookie
func (h *ChildSessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, ChildSessionCookieName))
	respondJSON(w, http.StatusNoContent, nil)
}
