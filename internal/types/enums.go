package types

// Closed enums for every status-bearing column. Keeping them as named string
// types (not bare strings) lets the authorization matrix and the state
// machine switch exhaustively.

type Role string

const (
	RoleTrainee     Role = "trainee"
	RoleTrainer     Role = "trainer"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTrainee, RoleTrainer, RoleCoordinator, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionArchived SessionStatus = "archived"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationCompleted RegistrationStatus = "completed"
	RegistrationFailed    RegistrationStatus = "failed"
)

// Terminal reports whether no further transition may leave this status.
func (s RegistrationStatus) Terminal() bool {
	switch s {
	case RegistrationCompleted, RegistrationCancelled, RegistrationFailed:
		return true
	}
	return false
}

type CompletionStatus string

const (
	CompletionInProgress CompletionStatus = "in_progress"
	CompletionCompleted  CompletionStatus = "completed"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentFile  ContentType = "file"
	ContentImage ContentType = "image"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentVideo, ContentFile, ContentImage:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)
