package handlers

import (
	"net/http"
	"strconv"

	"chorestar/internal/models"
	"chorestar/internal/security"
	"chorestar/internal/service"
)

// ChildHandler handles child profile and PIN endpoints
type ChildHandler struct {
	childService *service.ChildService
	pinService   *service.PinService
	childTokens  *security.ChildTokenIssuer
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService, pinService *service.PinService, childTokens *security.ChildTokenIssuer) *ChildHandler {
	return &ChildHandler{
		childService: childService,
		pinService:   pinService,
		childTokens:  childTokens,
	}
}

// childView is the client-facing child shape. HasPin lets the UI show which
// children can sign in, without ever exposing credential material.
type childView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	AvatarColor string `json:"avatar_color"`
	AvatarEmoji string `json:"avatar_emoji"`
	HasPin      bool   `json:"has_pin"`
}

func (h *ChildHandler) viewChild(c *models.Child) (childView, error) {
	hasPin, err := h.pinService.HasPin(c.ID)
	if err != nil {
		return childView{}, err
	}
	return childView{
		ID:          c.ID,
		Name:        c.Name,
		Age:         c.Age,
		AvatarColor: c.AvatarColor,
		AvatarEmoji: c.AvatarEmoji,
		HasPin:      hasPin,
	}, nil
}

type childRequest struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	AvatarColor string `json:"avatar_color"`
	AvatarEmoji string `json:"avatar_emoji"`
}

// List returns all children in the caller's family
func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	children, err := h.childService.ListChildren(family.FamilyUserID)
	if err != nil {
		respondServiceError(w, err, "Failed to list children")
		return
	}

	views := make([]childView, 0, len(children))
	for i := range children {
		view, err := h.viewChild(&children[i])
		if err != nil {
			respondServiceError(w, err, "Failed to load child")
			return
		}
		views = append(views, view)
	}
	respondJSON(w, http.StatusOK, views)
}

// Create adds a child to the caller's family
func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req childRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	child, err := h.childService.CreateChild(family.FamilyUserID, req.Name, req.Age, req.AvatarColor, req.AvatarEmoji)
	if err != nil {
		respondServiceError(w, err, "Failed to create child")
		return
	}

	view, err := h.viewChild(child)
	if err != nil {
		respondServiceError(w, err, "Failed to load child")
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Get returns a single child in the caller's family
func (h *ChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	child, err := h.childService.GetChild(family.FamilyUserID, childID)
	if err != nil {
		respondServiceError(w, err, "Failed to get child")
		return
	}

	view, err := h.viewChild(child)
	if err != nil {
		respondServiceError(w, err, "Failed to load child")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Update modifies a child's profile
func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	var req childRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	child, err := h.childService.UpdateChild(family.FamilyUserID, childID, req.Name, req.Age, req.AvatarColor, req.AvatarEmoji)
	if err != nil {
		respondServiceError(w, err, "Failed to update child")
		return
	}

	view, err := h.viewChild(child)
	if err != nil {
		respondServiceError(w, err, "Failed to load child")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Delete removes a child profile
func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	if err := h.childService.DeleteChild(family.FamilyUserID, childID); err != nil {
		respondServiceError(w, err, "Failed to delete child")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetPin creates or replaces a child's PIN. The acting user, not the
// effective family, must own the child: sharing does not delegate
// credential management.
func (h *ChildHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	var req struct {
		Pin string `json:"pin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.pinService.SetPin(user.ID, childID, req.Pin); err != nil {
		respondServiceError(w, err, "Failed to set PIN")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// RemovePin deletes a child's PIN. Same ownership rule as SetPin.
func (h *ChildHandler) RemovePin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	if err := h.pinService.RemovePin(user.ID, childID); err != nil {
		respondServiceError(w, err, "Failed to remove PIN")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// VerifyPin checks a child's PIN and, on success, opens a child session by
// setting a signed child token cookie.
func (h *ChildHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	childID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	var req struct {
		Pin string `json:"pin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	profile, err := h.pinService.VerifyPin(family.FamilyUserID, childID, req.Pin)
	if err != nil {
		respondServiceError(w, err, "Failed to verify PIN")
		return
	}

	token, err := h.childTokens.Issue(profile.ID, family.FamilyUserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to issue child token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ChildSessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, profile)
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
