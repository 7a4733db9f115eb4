package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/runcrew/stride/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Email    string `validate:"required,email,max=254"`
	// Empty password keeps the current one
	Password string `validate:"omitempty,min=8,max=72"`
}

type ActivityRequest struct {
	Kind     entity.ActivityKind `validate:"required,activity_kind"`
	Duration int                 `validate:"required,min=1"`
	// Upper bound matches the NUMERIC(5,2) column
	Distance *float64 `validate:"omitempty,min=0,max=999.99"`
	Calories int      `validate:"min=0"`
	// Zero date defaults to today
	Date time.Time
}

type Period struct {
	Month int `validate:"required,min=1,max=12"`
	Year  int `validate:"required,min=2000"`
}

type ActivityFilter struct {
	Kind *entity.ActivityKind
	From *time.Time
	To   *time.Time
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Reads target's record. Permitted for the target itself or an admin actor
	GetUser(ctx context.Context, actorID uuid.UUID, actorAdmin bool, targetID uuid.UUID) (*entity.User, error)
	// Updates target's record under the same self-or-admin policy
	UpdateUser(ctx context.Context, actorID uuid.UUID, actorAdmin bool, targetID uuid.UUID, req *UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, actorID uuid.UUID, actorAdmin bool, targetID uuid.UUID) error
}

type ActivitiesServiceI interface {
	// Validates and stores one activity owned by uid
	LogActivity(ctx context.Context, uid uuid.UUID, req *ActivityRequest) (*entity.Activity, error)
	// Reads a single activity, owner-only
	GetActivity(ctx context.Context, activityID, userID uuid.UUID) (*entity.Activity, error)
	// Lists uid's activities, newest date first
	GetUserActivities(ctx context.Context, uid uuid.UUID, filter ActivityFilter, pagination PaginationOpts) ([]*entity.Activity, error)
	UpdateActivity(ctx context.Context, activityID, userID uuid.UUID, req *ActivityRequest) (*entity.Activity, error)
	DeleteActivity(ctx context.Context, activityID, userID uuid.UUID) error
	// Lifetime totals plus counts since start of current week and month
	GetMetrics(ctx context.Context, uid uuid.UUID) (*entity.ActivityMetrics, error)
}

type LeaderboardServiceI interface {
	// Rebuilds uid's snapshot for the period from current activities.
	// Idempotent; never triggered by activity writes
	Recompute(ctx context.Context, uid uuid.UUID, month, year int) (*entity.LeaderboardEntry, error)
	// Global ranking for the period
	GetRanking(ctx context.Context, month, year int, pagination PaginationOpts) ([]*entity.LeaderboardEntry, error)
}
