package service_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/internal/repository"
	"github.com/runcrew/stride/internal/service"
	"github.com/runcrew/stride/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activitiesRepoMock keeps rows in memory so the create-then-read flow of the
// service works against it. Error states override the stored data.
type activitiesRepoMock struct {
	state      mockState
	activities map[uuid.UUID]*entity.Activity
}

func newActivitiesRepoMock() *activitiesRepoMock {
	return &activitiesRepoMock{
		state:      stateSuccess,
		activities: make(map[uuid.UUID]*entity.Activity),
	}
}

func (armock *activitiesRepoMock) Create(ctx context.Context, activity *entity.Activity) (uuid.UUID, error) {
	switch armock.state {
	case stateOwnerNotFoundError:
		return uuid.UUID{}, errorvalues.ErrOwnerNotFound
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	}
	stored := *activity
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	armock.activities[stored.ID] = &stored
	return stored.ID, nil
}

func (armock *activitiesRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	if armock.state == stateDBError {
		return nil, errors.New("db error")
	}
	activity, ok := armock.activities[id]
	if !ok {
		return nil, errorvalues.ErrActivityNotFound
	}
	result := *activity
	return &result, nil
}

func (armock *activitiesRepoMock) GetByUserID(ctx context.Context, uid uuid.UUID, filter repository.ActivityFilter, limit, offset int) ([]*entity.Activity, error) {
	if armock.state == stateDBError {
		return nil, errors.New("db error")
	}
	result := make([]*entity.Activity, 0)
	for _, activity := range armock.activities {
		if activity.UserID != uid {
			continue
		}
		if filter.Kind != nil && activity.Kind != *filter.Kind {
			continue
		}
		if filter.From != nil && activity.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && activity.Date.After(*filter.To) {
			continue
		}
		a := *activity
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	if offset >= len(result) {
		return []*entity.Activity{}, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (armock *activitiesRepoMock) Update(ctx context.Context, activity *entity.Activity) error {
	if armock.state == stateDBError {
		return errors.New("db error")
	}
	if _, ok := armock.activities[activity.ID]; !ok {
		return errorvalues.ErrActivityNotFound
	}
	stored := *activity
	stored.UpdatedAt = time.Now().UTC()
	armock.activities[activity.ID] = &stored
	return nil
}

func (armock *activitiesRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if armock.state == stateDBError {
		return errors.New("db error")
	}
	if _, ok := armock.activities[id]; !ok {
		return errorvalues.ErrActivityNotFound
	}
	delete(armock.activities, id)
	return nil
}

func (armock *activitiesRepoMock) Totals(ctx context.Context, uid uuid.UUID) (int, float64, int, error) {
	if armock.state == stateDBError {
		return 0, 0, 0, errors.New("db error")
	}
	var duration, calories int
	var distance float64
	for _, activity := range armock.activities {
		if activity.UserID != uid {
			continue
		}
		duration += activity.Duration
		calories += activity.Calories
		if activity.Distance != nil {
			distance += *activity.Distance
		}
	}
	return duration, distance, calories, nil
}

func (armock *activitiesRepoMock) CountSince(ctx context.Context, uid uuid.UUID, date time.Time) (int, error) {
	if armock.state == stateDBError {
		return 0, errors.New("db error")
	}
	count := 0
	for _, activity := range armock.activities {
		if activity.UserID == uid && !activity.Date.Before(date) {
			count++
		}
	}
	return count, nil
}

func (armock *activitiesRepoMock) MonthlyTotals(ctx context.Context, uid uuid.UUID, month, year int) (int, float64, int, error) {
	if armock.state == stateDBError {
		return 0, 0, 0, errors.New("db error")
	}
	var count, calories int
	var distance float64
	for _, activity := range armock.activities {
		if activity.UserID != uid {
			continue
		}
		if int(activity.Date.Month()) != month || activity.Date.Year() != year {
			continue
		}
		count++
		calories += activity.Calories
		if activity.Distance != nil {
			distance += *activity.Distance
		}
	}
	return count, distance, calories, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestLogActivity(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	uid := uuid.New()
	t.Run("distance kind with distance", func(t *testing.T) {
		activity, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindRunning,
			Duration: 30,
			Distance: floatPtr(5.0),
			Calories: 300,
			Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, uid, activity.UserID)
		assert.Equal(t, entity.KindRunning, activity.Kind)
		require.NotNil(t, activity.Distance)
		assert.Equal(t, 5.0, *activity.Distance)
	})
	t.Run("weightlifting without distance", func(t *testing.T) {
		activity, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 45,
			Calories: 200,
			Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Nil(t, activity.Distance)
	})
	t.Run("distance kinds reject missing distance", func(t *testing.T) {
		for _, kind := range []entity.ActivityKind{
			entity.KindRunning,
			entity.KindCycling,
			entity.KindSwimming,
			entity.KindWalking,
		} {
			_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
				Kind:     kind,
				Duration: 30,
				Calories: 100,
			})
			assert.ErrorIs(t, err, errorvalues.ErrValidation, string(kind))
		}
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.ActivityKind("Rowing"),
			Duration: 30,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("zero duration", func(t *testing.T) {
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 0,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("distance above column bound", func(t *testing.T) {
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindCycling,
			Duration: 30,
			Distance: floatPtr(1000.0),
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("negative distance", func(t *testing.T) {
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindRunning,
			Duration: 30,
			Distance: floatPtr(-1.0),
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("zero date defaults to today", func(t *testing.T) {
		activity, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 20,
		})
		require.NoError(t, err)
		now := time.Now().UTC()
		assert.Equal(t, now.Year(), activity.Date.Year())
		assert.Equal(t, now.YearDay(), activity.Date.YearDay())
	})
	t.Run("distance rounded to two decimals", func(t *testing.T) {
		activity, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindCycling,
			Duration: 60,
			Distance: floatPtr(3.14159),
		})
		require.NoError(t, err)
		require.NotNil(t, activity.Distance)
		assert.Equal(t, 3.14, *activity.Distance)
	})
	t.Run("unknown owner", func(t *testing.T) {
		mock.state = stateOwnerNotFoundError
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 30,
		})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
		mock.state = stateSuccess
	})
}

func TestGetActivityOwnership(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	owner := uuid.New()
	logged, err := s.LogActivity(ctx, owner, &service.ActivityRequest{
		Kind:     entity.KindWeightlifting,
		Duration: 30,
	})
	require.NoError(t, err)
	t.Run("owner reads own activity", func(t *testing.T) {
		activity, err := s.GetActivity(ctx, logged.ID, owner)
		assert.NoError(t, err)
		assert.Equal(t, logged.ID, activity.ID)
	})
	t.Run("foreign activity hidden", func(t *testing.T) {
		_, err := s.GetActivity(ctx, logged.ID, uuid.New())
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("missing activity", func(t *testing.T) {
		_, err := s.GetActivity(ctx, uuid.New(), owner)
		assert.ErrorIs(t, err, errorvalues.ErrActivityNotFound)
	})
}

func TestGetUserActivities(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	uid := uuid.New()
	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindRunning,
			Duration: 30,
			Distance: floatPtr(5.0),
			Date:     date,
		})
		require.NoError(t, err)
	}
	_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
		Kind:     entity.KindWeightlifting,
		Duration: 45,
		Date:     time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	pagination := service.PaginationOpts{Limit: 10, Offset: 0}
	t.Run("newest first", func(t *testing.T) {
		activities, err := s.GetUserActivities(ctx, uid, service.ActivityFilter{}, pagination)
		require.NoError(t, err)
		require.Equal(t, 4, len(activities))
		for i := 1; i < len(activities); i++ {
			assert.False(t, activities[i-1].Date.Before(activities[i].Date))
		}
	})
	t.Run("filter by kind", func(t *testing.T) {
		kind := entity.KindWeightlifting
		activities, err := s.GetUserActivities(ctx, uid, service.ActivityFilter{Kind: &kind}, pagination)
		require.NoError(t, err)
		require.Equal(t, 1, len(activities))
		assert.Equal(t, entity.KindWeightlifting, activities[0].Kind)
	})
	t.Run("filter by date range", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		activities, err := s.GetUserActivities(ctx, uid, service.ActivityFilter{From: &from, To: &to}, pagination)
		require.NoError(t, err)
		assert.Equal(t, 3, len(activities))
	})
	t.Run("pagination window", func(t *testing.T) {
		activities, err := s.GetUserActivities(ctx, uid, service.ActivityFilter{}, service.PaginationOpts{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, len(activities))
	})
	t.Run("foreign user sees nothing", func(t *testing.T) {
		activities, err := s.GetUserActivities(ctx, uuid.New(), service.ActivityFilter{}, pagination)
		require.NoError(t, err)
		assert.Equal(t, 0, len(activities))
	})
}

func TestUpdateActivityService(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	owner := uuid.New()
	logged, err := s.LogActivity(ctx, owner, &service.ActivityRequest{
		Kind:     entity.KindRunning,
		Duration: 30,
		Distance: floatPtr(5.0),
		Calories: 300,
		Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	t.Run("owner updates fields", func(t *testing.T) {
		updated, err := s.UpdateActivity(ctx, logged.ID, owner, &service.ActivityRequest{
			Kind:     entity.KindCycling,
			Duration: 60,
			Distance: floatPtr(20.0),
			Calories: 450,
			Date:     logged.Date,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.KindCycling, updated.Kind)
		assert.Equal(t, 60, updated.Duration)
		assert.Equal(t, 450, updated.Calories)
	})
	t.Run("zero date keeps stored date", func(t *testing.T) {
		updated, err := s.UpdateActivity(ctx, logged.ID, owner, &service.ActivityRequest{
			Kind:     entity.KindCycling,
			Duration: 90,
			Distance: floatPtr(25.0),
		})
		require.NoError(t, err)
		assert.Equal(t, logged.Date, updated.Date)
	})
	t.Run("distance rule applies on update", func(t *testing.T) {
		_, err := s.UpdateActivity(ctx, logged.ID, owner, &service.ActivityRequest{
			Kind:     entity.KindRunning,
			Duration: 30,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("foreign activity hidden", func(t *testing.T) {
		_, err := s.UpdateActivity(ctx, logged.ID, uuid.New(), &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 30,
		})
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("missing activity", func(t *testing.T) {
		_, err := s.UpdateActivity(ctx, uuid.New(), owner, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 30,
		})
		assert.ErrorIs(t, err, errorvalues.ErrActivityNotFound)
	})
}

func TestDeleteActivityService(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	owner := uuid.New()
	logged, err := s.LogActivity(ctx, owner, &service.ActivityRequest{
		Kind:     entity.KindWeightlifting,
		Duration: 30,
	})
	require.NoError(t, err)
	t.Run("foreign activity hidden", func(t *testing.T) {
		err := s.DeleteActivity(ctx, logged.ID, uuid.New())
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("owner deletes", func(t *testing.T) {
		assert.NoError(t, s.DeleteActivity(ctx, logged.ID, owner))
		_, err := s.GetActivity(ctx, logged.ID, owner)
		assert.ErrorIs(t, err, errorvalues.ErrActivityNotFound)
	})
	t.Run("missing activity", func(t *testing.T) {
		err := s.DeleteActivity(ctx, uuid.New(), owner)
		assert.ErrorIs(t, err, errorvalues.ErrActivityNotFound)
	})
}

func TestGetMetricsService(t *testing.T) {
	mock := newActivitiesRepoMock()
	s := service.NewActivitiesService(mock)
	ctx := context.Background()
	uid := uuid.New()
	t.Run("no activities yields zeros", func(t *testing.T) {
		metrics, err := s.GetMetrics(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 0, metrics.TotalDuration)
		assert.Equal(t, 0.0, metrics.TotalDistance)
		assert.Equal(t, 0, metrics.TotalCalories)
		assert.Equal(t, 0, metrics.WeeklyActivities)
		assert.Equal(t, 0, metrics.MonthlyActivities)
	})
	t.Run("lifetime totals with current period counts", func(t *testing.T) {
		// An old row counts only toward lifetime totals
		_, err := s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindRunning,
			Duration: 30,
			Distance: floatPtr(5.0),
			Calories: 300,
			Date:     time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		// Dated today, lands in both weekly and monthly windows
		_, err = s.LogActivity(ctx, uid, &service.ActivityRequest{
			Kind:     entity.KindWeightlifting,
			Duration: 45,
			Calories: 200,
		})
		require.NoError(t, err)
		metrics, err := s.GetMetrics(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 75, metrics.TotalDuration)
		assert.Equal(t, 5.0, metrics.TotalDistance)
		assert.Equal(t, 500, metrics.TotalCalories)
		assert.Equal(t, 1, metrics.WeeklyActivities)
		assert.Equal(t, 1, metrics.MonthlyActivities)
	})
}
