package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
	"github.com/trainhub/trainhub-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "trainhub", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		table string
		name  string
		ddl   string
	}{
		{
			table: "user_tokens",
			name:  "fk_user_token_user_id",
			ddl: `ALTER TABLE "user_tokens" ADD CONSTRAINT "fk_user_token_user_id"
			      FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE`,
		},
		{
			table: "registrations",
			name:  "fk_registration_user_id",
			ddl: `ALTER TABLE "registrations" ADD CONSTRAINT "fk_registration_user_id"
			      FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE RESTRICT`,
		},
		{
			table: "registrations",
			name:  "fk_registration_session_id",
			ddl: `ALTER TABLE "registrations" ADD CONSTRAINT "fk_registration_session_id"
			      FOREIGN KEY ("training_session_id") REFERENCES "training_sessions"("id") ON DELETE RESTRICT`,
		},
		{
			table: "training_courses",
			name:  "fk_course_session_id",
			ddl: `ALTER TABLE "training_courses" ADD CONSTRAINT "fk_course_session_id"
			      FOREIGN KEY ("training_session_id") REFERENCES "training_sessions"("id") ON DELETE CASCADE`,
		},
		{
			table: "course_contents",
			name:  "fk_content_course_id",
			ddl: `ALTER TABLE "course_contents" ADD CONSTRAINT "fk_content_course_id"
			      FOREIGN KEY ("training_course_id") REFERENCES "training_courses"("id") ON DELETE CASCADE`,
		},
		{
			table: "course_completions",
			name:  "fk_completion_course_id",
			ddl: `ALTER TABLE "course_completions" ADD CONSTRAINT "fk_completion_course_id"
			      FOREIGN KEY ("training_course_id") REFERENCES "training_courses"("id") ON DELETE CASCADE`,
		},
		{
			table: "feedbacks",
			name:  "fk_feedback_registration_id",
			ddl: `ALTER TABLE "feedbacks" ADD CONSTRAINT "fk_feedback_registration_id"
			      FOREIGN KEY ("registration_id") REFERENCES "registrations"("id") ON DELETE CASCADE`,
		},
		{
			table: "notifications",
			name:  "fk_notification_user_id",
			ddl: `ALTER TABLE "notifications" ADD CONSTRAINT "fk_notification_user_id"
			      FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		if err := s.db.Exec(fmt.Sprintf(`ALTER TABLE IF EXISTS %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)).Error; err != nil {
			s.log.Warn("Failed to drop existing constraint (continuing)", "constraint", c.name, "error", err)
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
