package service

import (
	"chorestar/internal/models"
	"chorestar/internal/repository"
	"chorestar/internal/validation"
)

// ChildService handles child profile management scoped to a family
type ChildService struct {
	childRepo *repository.ChildRepository
}

// NewChildService creates a new child service
func NewChildService(childRepo *repository.ChildRepository) *ChildService {
	return &ChildService{childRepo: childRepo}
}

// CreateChild adds a child profile to a family
func (s *ChildService) CreateChild(familyUserID int64, name string, age int, avatarColor, avatarEmoji string) (*models.Child, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	return s.childRepo.CreateChild(familyUserID, name, age, avatarColor, avatarEmoji)
}

// GetChild retrieves a child, verifying it belongs to the family
func (s *ChildService) GetChild(familyUserID, childID int64) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.UserID != familyUserID {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// ListChildren retrieves all children in a family
func (s *ChildService) ListChildren(familyUserID int64) ([]models.Child, error) {
	return s.childRepo.GetFamilyChildren(familyUserID)
}

// UpdateChild updates a child's profile fields
func (s *ChildService) UpdateChild(familyUserID, childID int64, name string, age int, avatarColor, avatarEmoji string) (*models.Child, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := s.GetChild(familyUserID, childID); err != nil {
		return nil, err
	}
	if err := s.childRepo.UpdateChild(childID, name, age, avatarColor, avatarEmoji); err != nil {
		return nil, err
	}
	return s.childRepo.GetChildByID(childID)
}

// DeleteChild removes a child profile and everything hanging off it
func (s *ChildService) DeleteChild(familyUserID, childID int64) error {
	if _, err := s.GetChild(familyUserID, childID); err != nil {
		return err
	}
	return s.childRepo.DeleteChild(childID)
}
