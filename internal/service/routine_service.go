package service

import (
	"errors"

	"chorestar/internal/models"
	"chorestar/internal/repository"
	"chorestar/internal/validation"
)

var ErrRoutineNotFound = errors.New("routine not found")

// RoutineService handles morning/evening routine items and their daily
// completion tracking.
type RoutineService struct {
	childRepo   *repository.ChildRepository
	routineRepo *repository.RoutineRepository
}

// NewRoutineService creates a new routine service
func NewRoutineService(childRepo *repository.ChildRepository, routineRepo *repository.RoutineRepository) *RoutineService {
	return &RoutineService{childRepo: childRepo, routineRepo: routineRepo}
}

func validateTimeOfDay(timeOfDay string) error {
	if timeOfDay != models.RoutineMorning && timeOfDay != models.RoutineEvening {
		return validation.ValidationError{Field: "time_of_day", Message: "time_of_day must be morning or evening"}
	}
	return nil
}

// CreateRoutine creates a routine item for a child in the family
func (s *RoutineService) CreateRoutine(familyUserID, childID int64, title, timeOfDay string, sortOrder int) (*models.Routine, error) {
	if err := validation.ValidateName(title); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay(timeOfDay); err != nil {
		return nil, err
	}
	if err := s.requireFamilyChild(familyUserID, childID); err != nil {
		return nil, err
	}
	return s.routineRepo.CreateRoutine(childID, title, timeOfDay, sortOrder)
}

// UpdateRoutine updates a routine item owned by the family
func (s *RoutineService) UpdateRoutine(familyUserID, routineID int64, title, timeOfDay string, sortOrder int) (*models.Routine, error) {
	if err := validation.ValidateName(title); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay(timeOfDay); err != nil {
		return nil, err
	}
	if _, err := s.getFamilyRoutine(familyUserID, routineID); err != nil {
		return nil, err
	}
	if err := s.routineRepo.UpdateRoutine(routineID, title, timeOfDay, sortOrder); err != nil {
		return nil, err
	}
	return s.routineRepo.GetRoutineByID(routineID)
}

// DeleteRoutine removes a routine item owned by the family
func (s *RoutineService) DeleteRoutine(familyUserID, routineID int64) error {
	if _, err := s.getFamilyRoutine(familyUserID, routineID); err != nil {
		return err
	}
	return s.routineRepo.DeleteRoutine(routineID)
}

// ListRoutines returns a child's routine items with their completion state
// for a date.
func (s *RoutineService) ListRoutines(familyUserID, childID int64, date string) ([]models.RoutineWithStatus, error) {
	if err := s.requireFamilyChild(familyUserID, childID); err != nil {
		return nil, err
	}

	routines, err := s.routineRepo.GetChildRoutines(childID)
	if err != nil {
		return nil, err
	}

	result := make([]models.RoutineWithStatus, 0, len(routines))
	for _, routine := range routines {
		done, err := s.routineRepo.IsCompleted(routine.ID, date)
		if err != nil {
			return nil, err
		}
		result = append(result, models.RoutineWithStatus{Routine: routine, Completed: done})
	}
	return result, nil
}

// ToggleCompletion flips a routine item's completion for a date and returns
// the resulting state.
func (s *RoutineService) ToggleCompletion(familyUserID, routineID int64, date string) (bool, error) {
	if _, err := s.getFamilyRoutine(familyUserID, routineID); err != nil {
		return false, err
	}
	return s.routineRepo.ToggleCompletion(routineID, date)
}

func (s *RoutineService) requireFamilyChild(familyUserID, childID int64) error {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil || child.UserID != familyUserID {
		return ErrChildNotFound
	}
	return nil
}

func (s *RoutineService) getFamilyRoutine(familyUserID, routineID int64) (*models.Routine, error) {
	routine, err := s.routineRepo.GetRoutineByID(routineID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, ErrRoutineNotFound
	}
	child, err := s.childRepo.GetChildByID(routine.ChildID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.UserID != familyUserID {
		return nil, ErrRoutineNotFound
	}
	return routine, nil
}
