package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/internal/repository"
	"github.com/runcrew/stride/pkg/entity"
)

type ActivitiesService struct {
	repo repository.ActivitiesRepositoryI
}

func NewActivitiesService(activitiesRepo repository.ActivitiesRepositoryI) *ActivitiesService {
	if activitiesRepo == nil {
		log.Fatal("provided nil activitiesRepo")
	}
	return &ActivitiesService{
		repo: activitiesRepo,
	}
}

// validateActivity runs struct validation plus the distance rule: kinds
// measured over a distance cannot be logged without one.
func validateActivity(req *ActivityRequest) error {
	if err := validateStruct(*req); err != nil {
		return err
	}
	if req.Kind.RequiresDistance() && req.Distance == nil {
		return errors.Join(errorvalues.ErrValidation, errors.New("distance is required for distance-based activities"))
	}
	return nil
}

func (as *ActivitiesService) LogActivity(ctx context.Context, uid uuid.UUID, req *ActivityRequest) (*entity.Activity, error) {
	if req.Date.IsZero() {
		req.Date = today()
	}
	if err := validateActivity(req); err != nil {
		return nil, err
	}
	a := entity.Activity{
		UserID:   uid,
		Kind:     req.Kind,
		Duration: req.Duration,
		Distance: roundDistance(req.Distance),
		Calories: req.Calories,
		Date:     req.Date,
	}
	id, err := as.repo.Create(ctx, &a)
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	activity, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activity, nil
}

func (as *ActivitiesService) GetActivity(ctx context.Context, activityID, userID uuid.UUID) (*entity.Activity, error) {
	activity, err := as.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	if activity.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return activity, nil
}

func (as *ActivitiesService) GetUserActivities(ctx context.Context, uid uuid.UUID, filter ActivityFilter, pagination PaginationOpts) ([]*entity.Activity, error) {
	activities, err := as.repo.GetByUserID(ctx, uid, repository.ActivityFilter{
		Kind: filter.Kind,
		From: filter.From,
		To:   filter.To,
	}, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activities, nil
}

func (as *ActivitiesService) UpdateActivity(ctx context.Context, activityID, userID uuid.UUID, req *ActivityRequest) (*entity.Activity, error) {
	activity, err := as.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	if activity.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	if req.Date.IsZero() {
		req.Date = activity.Date
	}
	if err := validateActivity(req); err != nil {
		return nil, err
	}
	activity.Kind = req.Kind
	activity.Duration = req.Duration
	activity.Distance = roundDistance(req.Distance)
	activity.Calories = req.Calories
	activity.Date = req.Date
	err = as.repo.Update(ctx, activity)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	updated, err := as.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return updated, nil
}

func (as *ActivitiesService) DeleteActivity(ctx context.Context, activityID, userID uuid.UUID) error {
	activity, err := as.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return err
		}
		return errors.New("activities repository error: " + err.Error())
	}
	if activity.UserID != userID {
		return errorvalues.ErrWrongOwner
	}
	err = as.repo.Delete(ctx, activityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return err
		}
		return errors.New("activities repository error: " + err.Error())
	}
	return nil
}

func (as *ActivitiesService) GetMetrics(ctx context.Context, uid uuid.UUID) (*entity.ActivityMetrics, error) {
	duration, distance, calories, err := as.repo.Totals(ctx, uid)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	day := today()
	// Week starts on Monday; Go counts Sunday as 0
	weekOffset := (int(day.Weekday()) + 6) % 7
	startOfWeek := day.AddDate(0, 0, -weekOffset)
	startOfMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	weekly, err := as.repo.CountSince(ctx, uid, startOfWeek)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	monthly, err := as.repo.CountSince(ctx, uid, startOfMonth)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return &entity.ActivityMetrics{
		TotalDuration:     duration,
		TotalDistance:     round2(distance),
		TotalCalories:     calories,
		WeeklyActivities:  weekly,
		MonthlyActivities: monthly,
	}, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func roundDistance(d *float64) *float64 {
	if d == nil {
		return nil
	}
	rounded := round2(*d)
	return &rounded
}
