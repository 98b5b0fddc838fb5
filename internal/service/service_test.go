package service

import (
	"path/filepath"
	"testing"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
	"chorestar/internal/repository"
)

// testEnv wires the full service stack against a throwaway SQLite database
type testEnv struct {
	db         *database.DB
	userRepo   *repository.UserRepository
	childRepo  *repository.ChildRepository
	pinRepo    *repository.PinRepository
	familyRepo *repository.FamilyRepository
	choreRepo  *repository.ChoreRepository

	auth     *AuthService
	children *ChildService
	pins     *PinService
	family   *FamilyService
	chores   *ChoreService
	routines *RoutineService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	pinRepo := repository.NewPinRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	routineRepo := repository.NewRoutineRepository(db)

	return &testEnv{
		db:         db,
		userRepo:   userRepo,
		childRepo:  childRepo,
		pinRepo:    pinRepo,
		familyRepo: familyRepo,
		choreRepo:  choreRepo,

		auth:     NewAuthService(userRepo, time.Hour),
		children: NewChildService(childRepo),
		pins:     NewPinService(childRepo, pinRepo, 5, 15*time.Minute),
		family:   NewFamilyService(familyRepo, userRepo, 7*24*time.Hour),
		chores:   NewChoreService(childRepo, choreRepo),
		routines: NewRoutineService(childRepo, routineRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user, err := e.auth.Register(email, "password123", name)
	if err != nil {
		t.Fatalf("Failed to register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createChild(t *testing.T, userID int64, name string) *models.Child {
	t.Helper()
	child, err := e.children.CreateChild(userID, name, 7, "blue", "🦊")
	if err != nil {
		t.Fatalf("Failed to create child %s: %v", name, err)
	}
	return child
}

// joinFamily runs the full invite round trip to make member part of owner's family
func (e *testEnv) joinFamily(t *testing.T, owner, member *models.User) {
	t.Helper()
	inv, err := e.family.CreateInvite(owner, member.Email)
	if err != nil {
		t.Fatalf("Failed to create invite: %v", err)
	}
	if err := e.family.AcceptInvite(member, inv.Code); err != nil {
		t.Fatalf("Failed to accept invite: %v", err)
	}
}
