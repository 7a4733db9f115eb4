package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/runcrew/stride/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

// ActivityFilter narrows activity listing. Nil fields are not applied,
// date bounds are inclusive.
type ActivityFilter struct {
	Kind *entity.ActivityKind
	From *time.Time
	To   *time.Time
}

type ActivitiesRepositoryI interface {
	// Creates new activity row, returns generated id
	Create(ctx context.Context, activity *entity.Activity) (uuid.UUID, error)
	// Searches activity with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error)
	// Lists activities owned by uid, newest date first. Requires pagination params
	GetByUserID(ctx context.Context, uid uuid.UUID, filter ActivityFilter, limit, offset int) ([]*entity.Activity, error)
	// Updates activity by ID (ID in activity is necessary)
	Update(ctx context.Context, activity *entity.Activity) error
	// Deletes activity with id
	Delete(ctx context.Context, id uuid.UUID) error
	// Lifetime sums for uid: duration, distance (NULL rows skipped), calories
	Totals(ctx context.Context, uid uuid.UUID) (duration int, distance float64, calories int, err error)
	// Counts activities of uid dated on or after the given day
	CountSince(ctx context.Context, uid uuid.UUID, date time.Time) (int, error)
	// Aggregates uid's activities for a month/year: count, distance sum, calories sum
	MonthlyTotals(ctx context.Context, uid uuid.UUID, month, year int) (count int, distance float64, calories int, err error)
}

type LeaderboardRepositoryI interface {
	// Creates or replaces the (user, month, year) snapshot row
	Upsert(ctx context.Context, entry *entity.LeaderboardEntry) error
	// Returns the snapshot for user and period
	GetByUserPeriod(ctx context.Context, uid uuid.UUID, month, year int) (*entity.LeaderboardEntry, error)
	// Lists snapshots for a period ranked by activities, distance, calories
	ListByPeriod(ctx context.Context, month, year, limit, offset int) ([]*entity.LeaderboardEntry, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
