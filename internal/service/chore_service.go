package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"chorestar/internal/models"
	"chorestar/internal/repository"
	"chorestar/internal/validation"
)

var ErrChoreNotFound = errors.New("chore not found")

// ChoreService handles chore management and daily completion tracking
type ChoreService struct {
	childRepo *repository.ChildRepository
	choreRepo *repository.ChoreRepository
}

// NewChoreService creates a new chore service
func NewChoreService(childRepo *repository.ChildRepository, choreRepo *repository.ChoreRepository) *ChoreService {
	return &ChoreService{childRepo: childRepo, choreRepo: choreRepo}
}

// validateDays checks a comma-separated weekday list ("1,2,5"). Empty means
// the chore is scheduled every day.
func validateDays(days string) error {
	if days == "" {
		return nil
	}
	for _, part := range strings.Split(days, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return validation.ValidationError{Field: "days", Message: "days must be weekday numbers 0-6"}
		}
	}
	return nil
}

// CreateChore creates a chore for a child in the family
func (s *ChoreService) CreateChore(familyUserID, childID int64, title, icon string, rewardCents int, days string) (*models.Chore, error) {
	if err := validation.ValidateName(title); err != nil {
		return nil, err
	}
	if err := validateDays(days); err != nil {
		return nil, err
	}
	if rewardCents < 0 {
		return nil, validation.ValidationError{Field: "reward_cents", Message: "reward cannot be negative"}
	}
	if err := s.requireFamilyChild(familyUserID, childID); err != nil {
		return nil, err
	}
	return s.choreRepo.CreateChore(childID, title, icon, rewardCents, days)
}

// UpdateChore updates a chore owned by the family
func (s *ChoreService) UpdateChore(familyUserID, choreID int64, title, icon string, rewardCents int, days string) (*models.Chore, error) {
	if err := validation.ValidateName(title); err != nil {
		return nil, err
	}
	if err := validateDays(days); err != nil {
		return nil, err
	}
	if _, err := s.getFamilyChore(familyUserID, choreID); err != nil {
		return nil, err
	}
	if err := s.choreRepo.UpdateChore(choreID, title, icon, rewardCents, days); err != nil {
		return nil, err
	}
	return s.choreRepo.GetChoreByID(choreID)
}

// DeleteChore removes a chore owned by the family
func (s *ChoreService) DeleteChore(familyUserID, choreID int64) error {
	if _, err := s.getFamilyChore(familyUserID, choreID); err != nil {
		return err
	}
	return s.choreRepo.DeleteChore(choreID)
}

// ListChores returns a child's chores with their completion state for a date
func (s *ChoreService) ListChores(familyUserID, childID int64, date string) ([]models.ChoreWithStatus, error) {
	if err := s.requireFamilyChild(familyUserID, childID); err != nil {
		return nil, err
	}
	return s.listWithStatus(childID, date)
}

// ToggleCompletion flips a chore's completion for a date and returns the
// resulting state.
func (s *ChoreService) ToggleCompletion(familyUserID, choreID int64, date string) (bool, error) {
	if _, err := s.getFamilyChore(familyUserID, choreID); err != nil {
		return false, err
	}
	return s.choreRepo.ToggleCompletion(choreID, date)
}

// WeeklySummary aggregates a child's completions over the seven days ending
// on the given date.
func (s *ChoreService) WeeklySummary(familyUserID, childID int64, endDate string) (*models.WeeklySummary, error) {
	if err := s.requireFamilyChild(familyUserID, childID); err != nil {
		return nil, err
	}

	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, validation.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	from := end.AddDate(0, 0, -6).Format("2006-01-02")

	completions, err := s.choreRepo.GetCompletionsInRange(childID, from, endDate)
	if err != nil {
		return nil, err
	}

	chores, err := s.choreRepo.GetChildChores(childID)
	if err != nil {
		return nil, err
	}
	rewards := make(map[int64]int, len(chores))
	for _, c := range chores {
		rewards[c.ID] = c.RewardCents
	}

	summary := &models.WeeklySummary{ChildID: childID, TotalChores: len(chores)}
	for _, c := range completions {
		summary.CompletedCount++
		summary.EarnedCents += rewards[c.ChoreID]
	}
	return summary, nil
}

func (s *ChoreService) listWithStatus(childID int64, date string) ([]models.ChoreWithStatus, error) {
	chores, err := s.choreRepo.GetChildChores(childID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ChoreWithStatus, 0, len(chores))
	for _, chore := range chores {
		done, err := s.choreRepo.IsCompleted(chore.ID, date)
		if err != nil {
			return nil, err
		}
		result = append(result, models.ChoreWithStatus{Chore: chore, Completed: done})
	}
	return result, nil
}

func (s *ChoreService) requireFamilyChild(familyUserID, childID int64) error {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil || child.UserID != familyUserID {
		return ErrChildNotFound
	}
	return nil
}

func (s *ChoreService) getFamilyChore(familyUserID, choreID int64) (*models.Chore, error) {
	chore, err := s.choreRepo.GetChoreByID(choreID)
	if err != nil {
		return nil, err
	}
	if chore == nil {
		return nil, ErrChoreNotFound
	}
	child, err := s.childRepo.GetChildByID(chore.ChildID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.UserID != familyUserID {
		// Do not reveal that the chore exists in another family
		return nil, ErrChoreNotFound
	}
	return chore, nil
}
