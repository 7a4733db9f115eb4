package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/pkg/cleanup"
	"github.com/runcrew/stride/pkg/entity"
)

type ActivitiesRepository struct {
	conn PgConnection
}

func NewActivitiesRepo(cfg DBConfig) *ActivitiesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for activitiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ActivitiesRepository{
		conn: pool,
	}
}

func NewActivitiesRepoWithConn(conn PgConnection) *ActivitiesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	return &ActivitiesRepository{
		conn: conn,
	}
}

func (ar *ActivitiesRepository) Create(ctx context.Context, activity *entity.Activity) (uuid.UUID, error) {
	if activity == nil {
		return uuid.UUID{}, errors.New("activity is nil")
	}
	var id uuid.UUID
	row := ar.conn.QueryRow(ctx,
		`INSERT INTO activities (user_id, activity_type, duration, distance, calories_burned, activity_date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		activity.UserID,
		activity.Kind,
		activity.Duration,
		activity.Distance,
		activity.Calories,
		activity.Date,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating activity db error: " + err.Error())
	}
	return id, nil
}

func (ar *ActivitiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	var activity entity.Activity
	activity.ID = id
	row := ar.conn.QueryRow(ctx,
		`SELECT user_id, activity_type, duration, distance, calories_burned, activity_date, created_at, updated_at FROM activities WHERE id = $1;`, id)
	err := row.Scan(
		&activity.UserID,
		&activity.Kind,
		&activity.Duration,
		&activity.Distance,
		&activity.Calories,
		&activity.Date,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrActivityNotFound
		}
		return nil, errors.New("getting activity by id error: " + err.Error())
	}
	return &activity, nil
}

func (ar *ActivitiesRepository) GetByUserID(ctx context.Context, uid uuid.UUID, filter ActivityFilter, limit, offset int) ([]*entity.Activity, error) {
	query := `SELECT id, user_id, activity_type, duration, distance, calories_burned, activity_date, created_at, updated_at FROM activities WHERE user_id = $1`
	args := []any{uid}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		query += fmt.Sprintf(` AND activity_type = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND activity_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND activity_date <= $%d`, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY activity_date DESC LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	activities := make([]*entity.Activity, 0)
	rows, err := ar.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("getting activities by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		a := entity.Activity{}
		err = rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Duration, &a.Distance, &a.Calories, &a.Date, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling activity error: " + err.Error())
		}
		activities = append(activities, &a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return activities, nil
}

func (ar *ActivitiesRepository) Update(ctx context.Context, activity *entity.Activity) error {
	ct, err := ar.conn.Exec(ctx,
		`UPDATE activities SET activity_type = $1, duration = $2, distance = $3, calories_burned = $4, activity_date = $5, updated_at = NOW() WHERE id = $6;`,
		activity.Kind,
		activity.Duration,
		activity.Distance,
		activity.Calories,
		activity.Date,
		activity.ID,
	)
	if err != nil {
		return errors.New("error updating activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityNotFound
	}
	return nil
}

func (ar *ActivitiesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := ar.conn.Exec(ctx, `DELETE FROM activities WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityNotFound
	}
	return nil
}

// Totals sums duration, distance and calories over all of uid's rows.
// SUM skips NULL distances, so rows without distance don't pull the sum down.
func (ar *ActivitiesRepository) Totals(ctx context.Context, uid uuid.UUID) (int, float64, int, error) {
	row := ar.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(duration), 0), COALESCE(SUM(distance), 0), COALESCE(SUM(calories_burned), 0) FROM activities WHERE user_id = $1;`,
		uid,
	)
	var duration, calories int
	var distance float64
	if err := row.Scan(&duration, &distance, &calories); err != nil {
		return 0, 0, 0, errors.New("error aggregating activity totals: " + err.Error())
	}
	return duration, distance, calories, nil
}

func (ar *ActivitiesRepository) CountSince(ctx context.Context, uid uuid.UUID, date time.Time) (int, error) {
	row := ar.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1 AND activity_date >= $2;`,
		uid,
		date,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting activities: " + err.Error())
	}
	return count, nil
}

func (ar *ActivitiesRepository) MonthlyTotals(ctx context.Context, uid uuid.UUID, month, year int) (int, float64, int, error) {
	row := ar.conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(distance), 0), COALESCE(SUM(calories_burned), 0) FROM activities WHERE user_id = $1 AND EXTRACT(MONTH FROM activity_date) = $2 AND EXTRACT(YEAR FROM activity_date) = $3;`,
		uid,
		month,
		year,
	)
	var count, calories int
	var distance float64
	if err := row.Scan(&count, &distance, &calories); err != nil {
		return 0, 0, 0, errors.New("error aggregating monthly totals: " + err.Error())
	}
	return count, distance, calories, nil
}
