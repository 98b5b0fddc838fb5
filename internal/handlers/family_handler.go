package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"chorestar/internal/service"
)

// FamilyHandler handles family sharing endpoints
type FamilyHandler struct {
	familyService *service.FamilyService
	emailService  *service.EmailService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, emailService *service.EmailService) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		emailService:  emailService,
	}
}

// CreateInvite issues or resends an invitation to join the caller's family
func (h *FamilyHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	invite, err := h.familyService.CreateInvite(user, req.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to create invite")
		return
	}

	// Delivery is best effort; the invite exists either way and can be resent
	go func(email, inviterName, code string) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.emailService.SendInviteEmail(ctx, email, inviterName, code); err != nil {
			log.Printf("Failed to send invite email to %s: %v", email, err)
		}
	}(invite.Email, user.Name, invite.Code)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"email":      invite.Email,
		"expires_at": invite.ExpiresAt,
	})
}

// InviteInfo is the public lookup for the invite redemption page
func (h *FamilyHandler) InviteInfo(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Invite code is required", "", nil)
		return
	}

	info, err := h.familyService.GetInviteInfo(code)
	if err != nil {
		respondServiceError(w, err, "Failed to look up invite")
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// AcceptInvite redeems an invite code for the signed-in account
func (h *FamilyHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.familyService.AcceptInvite(user, req.Code); err != nil {
		respondServiceError(w, err, "Failed to accept invite")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListMembers returns the family's accepted members and pending invites
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	overview, err := h.familyService.ListFamily(user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to list family")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// RemoveMember revokes a member's access. The family owner removes anyone;
// a shared member may only remove themselves (leave the family).
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	family := GetFamilyFromContext(r.Context())

	memberID, err := pathID(r, "userId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid member id", "", nil)
		return
	}

	if family.IsSharedMember && memberID != user.ID {
		respondWithError(w, http.StatusForbidden, "Only the family owner can remove members", "", nil)
		return
	}

	if err := h.familyService.RemoveMember(family.FamilyUserID, memberID); err != nil {
		respondServiceError(w, err, "Failed to remove member")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
