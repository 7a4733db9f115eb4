package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/internal/repository"
	"github.com/runcrew/stride/pkg/entity"
)

// LeaderboardService maintains monthly snapshots over the activities table.
// Snapshots are rebuilt only by explicit Recompute calls; activity writes
// leave them stale on purpose.
type LeaderboardService struct {
	activitiesRepo  repository.ActivitiesRepositoryI
	leaderboardRepo repository.LeaderboardRepositoryI
}

func NewLeaderboardService(activitiesRepo repository.ActivitiesRepositoryI, leaderboardRepo repository.LeaderboardRepositoryI) *LeaderboardService {
	if activitiesRepo == nil || leaderboardRepo == nil {
		log.Fatal("on leaderboard service provided nil repos")
	}
	return &LeaderboardService{
		activitiesRepo:  activitiesRepo,
		leaderboardRepo: leaderboardRepo,
	}
}

func (serv *LeaderboardService) Recompute(ctx context.Context, uid uuid.UUID, month, year int) (*entity.LeaderboardEntry, error) {
	if err := validateStruct(Period{Month: month, Year: year}); err != nil {
		return nil, err
	}
	count, distance, calories, err := serv.activitiesRepo.MonthlyTotals(ctx, uid, month, year)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	err = serv.leaderboardRepo.Upsert(ctx, &entity.LeaderboardEntry{
		UserID:          uid,
		Month:           month,
		Year:            year,
		TotalActivities: count,
		TotalDistance:   round2(distance),
		TotalCalories:   calories,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("leaderboard repository error: " + err.Error())
	}
	entry, err := serv.leaderboardRepo.GetByUserPeriod(ctx, uid, month, year)
	if err != nil {
		return nil, errors.New("leaderboard repository error: " + err.Error())
	}
	return entry, nil
}

func (serv *LeaderboardService) GetRanking(ctx context.Context, month, year int, pagination PaginationOpts) ([]*entity.LeaderboardEntry, error) {
	if err := validateStruct(Period{Month: month, Year: year}); err != nil {
		return nil, err
	}
	entries, err := serv.leaderboardRepo.ListByPeriod(ctx, month, year, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("leaderboard repository error: " + err.Error())
	}
	return entries, nil
}
