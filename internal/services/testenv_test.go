package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type testEnv struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	sessionRepo      repos.TrainingSessionRepo
	registrationRepo repos.RegistrationRepo
	courseRepo       repos.CourseRepo
	completionRepo   repos.CourseCompletionRepo
	notificationRepo repos.NotificationRepo
	feedbackRepo     repos.FeedbackRepo

	notificationService NotificationService
	registrationService RegistrationService
	completionService   CompletionService
	feedbackService     FeedbackService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pooled connection would see an empty database.
	if sqlDB, dErr := db.DB(); dErr == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.TrainingSession{},
		&types.Course{},
		&types.CourseContent{},
		&types.CourseCompletion{},
		&types.Registration{},
		&types.Feedback{},
		&types.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, dErr := db.DB(); dErr == nil {
			sqlDB.Close()
		}
	})
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	env := &testEnv{
		db:               db,
		log:              log,
		userRepo:         repos.NewUserRepo(db, log),
		sessionRepo:      repos.NewTrainingSessionRepo(db, log),
		registrationRepo: repos.NewRegistrationRepo(db, log),
		courseRepo:       repos.NewCourseRepo(db, log),
		completionRepo:   repos.NewCourseCompletionRepo(db, log),
		notificationRepo: repos.NewNotificationRepo(db, log),
		feedbackRepo:     repos.NewFeedbackRepo(db, log),
	}
	env.notificationService = NewNotificationService(db, log, env.notificationRepo, nil)
	env.registrationService = NewRegistrationService(db, log, env.userRepo, env.sessionRepo, env.registrationRepo, env.notificationService)
	env.completionService = NewCompletionService(db, log, env.courseRepo, env.registrationRepo, env.completionRepo)
	env.feedbackService = NewFeedbackService(db, log, env.sessionRepo, env.registrationRepo, env.feedbackRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, role types.Role) *types.User {
	t.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if _, err := env.userRepo.Create(context.Background(), nil, []*types.User{u}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (env *testEnv) createSession(t *testing.T, coordinatorID uuid.UUID, maxParticipants int, daysFromNow int) *types.TrainingSession {
	t.Helper()
	s := &types.TrainingSession{
		ID:              uuid.New(),
		SkillName:       "Forklift operation",
		Date:            time.Now().AddDate(0, 0, daysFromNow),
		StartTime:       "09:00",
		EndTime:         "17:00",
		MaxParticipants: maxParticipants,
		Status:          types.SessionActive,
		CoordinatorID:   coordinatorID,
	}
	if err := env.sessionRepo.Create(context.Background(), nil, s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func asUser(u *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: u.ID,
		Role:   u.Role,
	})
}
