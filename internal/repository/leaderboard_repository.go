package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/pkg/cleanup"
	"github.com/runcrew/stride/pkg/entity"
)

type LeaderboardRepository struct {
	conn PgConnection
}

func NewLeaderboardRepo(cfg DBConfig) *LeaderboardRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for leaderboardRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for leaderboardRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &LeaderboardRepository{
		conn: pool,
	}
}

func NewLeaderboardRepoWithConn(conn PgConnection) *LeaderboardRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for leaderboardRepo: " + err.Error())
	}
	return &LeaderboardRepository{
		conn: conn,
	}
}

// Upsert replaces the snapshot keyed by (user_id, month, year). The conflict
// clause makes concurrent recomputes for the same key safe.
func (lr *LeaderboardRepository) Upsert(ctx context.Context, entry *entity.LeaderboardEntry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	_, err := lr.conn.Exec(ctx,
		`INSERT INTO leaderboard (user_id, month, year, total_activities, total_distance, total_calories_burned) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (user_id, month, year) DO UPDATE SET total_activities = EXCLUDED.total_activities, total_distance = EXCLUDED.total_distance, total_calories_burned = EXCLUDED.total_calories_burned;`,
		entry.UserID,
		entry.Month,
		entry.Year,
		entry.TotalActivities,
		entry.TotalDistance,
		entry.TotalCalories,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrOwnerNotFound
			}
		}
		return errors.New("upserting leaderboard entry error: " + err.Error())
	}
	return nil
}

func (lr *LeaderboardRepository) GetByUserPeriod(ctx context.Context, uid uuid.UUID, month, year int) (*entity.LeaderboardEntry, error) {
	var entry entity.LeaderboardEntry
	row := lr.conn.QueryRow(ctx,
		`SELECT user_id, month, year, total_activities, total_distance, total_calories_burned FROM leaderboard WHERE user_id = $1 AND month = $2 AND year = $3;`,
		uid,
		month,
		year,
	)
	err := row.Scan(&entry.UserID, &entry.Month, &entry.Year, &entry.TotalActivities, &entry.TotalDistance, &entry.TotalCalories)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting leaderboard entry error: " + err.Error())
	}
	return &entry, nil
}

func (lr *LeaderboardRepository) ListByPeriod(ctx context.Context, month, year, limit, offset int) ([]*entity.LeaderboardEntry, error) {
	rows, err := lr.conn.Query(ctx,
		`SELECT user_id, month, year, total_activities, total_distance, total_calories_burned FROM leaderboard WHERE month = $1 AND year = $2 ORDER BY total_activities DESC, total_distance DESC, total_calories_burned DESC LIMIT $3 OFFSET $4;`,
		month,
		year,
		limit,
		offset,
	)
	if err != nil {
		return nil, errors.New("listing leaderboard error: " + err.Error())
	}
	defer rows.Close()
	entries := make([]*entity.LeaderboardEntry, 0)
	for rows.Next() {
		e := entity.LeaderboardEntry{}
		err = rows.Scan(&e.UserID, &e.Month, &e.Year, &e.TotalActivities, &e.TotalDistance, &e.TotalCalories)
		if err != nil {
			return nil, errors.New("unmarshalling leaderboard entry error: " + err.Error())
		}
		entries = append(entries, &e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return entries, nil
}
