// Package wire provides dependency injection for the sentinel
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/sentinel/internal/adapters/filesystem"
	"github.com/example/sentinel/internal/adapters/sqlite"
	"github.com/example/sentinel/internal/app"
	"github.com/example/sentinel/internal/auth"
	"github.com/example/sentinel/internal/config"
	"github.com/example/sentinel/internal/db"
	"github.com/example/sentinel/internal/ports/primary"
)

var (
	evaluationService primary.EvaluationService
	actionService     primary.ActionService
	metricsService    primary.MetricsService
	userService       primary.UserService
	checklistService  primary.ChecklistService
	once              sync.Once
)

// EvaluationService returns the singleton EvaluationService instance.
func EvaluationService() primary.EvaluationService {
	once.Do(initServices)
	return evaluationService
}

// ActionService returns the singleton ActionService instance.
func ActionService() primary.ActionService {
	once.Do(initServices)
	return actionService
}

// MetricsService returns the singleton MetricsService instance.
func MetricsService() primary.MetricsService {
	once.Do(initServices)
	return metricsService
}

// UserService returns the singleton UserService instance.
func UserService() primary.UserService {
	once.Do(initServices)
	return userService
}

// ChecklistService returns the singleton ChecklistService instance.
func ChecklistService() primary.ChecklistService {
	once.Do(initServices)
	return checklistService
}

// initServices initializes all services and their dependencies.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.EnsureAdminUser(database); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	stateDir, err := config.DefaultDir()
	if err != nil {
		log.Fatalf("failed to resolve state directory: %v", err)
	}
	secret, err := auth.LoadOrCreateSecret(stateDir)
	if err != nil {
		log.Fatalf("failed to load signing secret: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	evalRepo := sqlite.NewEvaluationRepository(database)
	actionRepo := sqlite.NewActionRepository(database)
	attachmentRepo := sqlite.NewAttachmentRepository(database)
	checklistRepo := sqlite.NewChecklistRepository(database)
	userRepo := sqlite.NewUserRepository(database)
	sessionStore := filesystem.NewSessionStore(stateDir)

	// Services (primary port implementations)
	checklistService = app.NewChecklistService(checklistRepo)
	evaluationService = app.NewEvaluationService(sessionStore, evalRepo, attachmentRepo, checklistService)
	actionService = app.NewActionService(actionRepo, attachmentRepo)
	metricsService = app.NewMetricsService(evalRepo, actionRepo, checklistService)
	userService = app.NewUserService(userRepo, auth.NewSigner(secret))
}
