package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/internal/service"
	"github.com/runcrew/stride/pkg/entity"
	"github.com/runcrew/stride/pkg/httputil"
)

const dateLayout = "2006-01-02"

type ActivityRequest struct {
	ActivityType   string   `json:"activity_type"`
	Duration       int      `json:"duration"`
	Distance       *float64 `json:"distance,omitempty"`
	CaloriesBurned int      `json:"calories_burned"`
	Date           string   `json:"date,omitempty"`
}

type ActivityResponse struct {
	ID             string   `json:"id"`
	ActivityType   string   `json:"activity_type"`
	Duration       int      `json:"duration"`
	Distance       *float64 `json:"distance,omitempty"`
	CaloriesBurned int      `json:"calories_burned"`
	Date           string   `json:"date"`
}

type GetActivitiesResponse struct {
	UserID     string             `json:"uid"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Activities []ActivityResponse `json:"activities"`
}

func toActivityResponse(a *entity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:             a.ID.String(),
		ActivityType:   string(a.Kind),
		Duration:       a.Duration,
		Distance:       a.Distance,
		CaloriesBurned: a.Calories,
		Date:           a.Date.Format(dateLayout),
	}
}

func (req *ActivityRequest) toServiceRequest() (*service.ActivityRequest, error) {
	out := service.ActivityRequest{
		Kind:     entity.ActivityKind(req.ActivityType),
		Duration: req.Duration,
		Distance: req.Distance,
		Calories: req.CaloriesBurned,
	}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, errors.New("date must be formatted as YYYY-MM-DD")
		}
		out.Date = date
	}
	return &out, nil
}

func paginationFromQuery(r *http.Request) (page, limit int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err = strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return page, limit
}

func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req ActivityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create activity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	serviceReq, err := req.toServiceRequest()
	if err != nil {
		logger.Error("create activity error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	activity, err := s.activitiesService.LogActivity(ctx, uid, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create activity error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity fields", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create activity error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create activity: user doesn't exists", nil)
		default:
			logger.Error("create activity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating activity", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, toActivityResponse(activity))
	logger.Info("activity created")
}

func (s *Server) GetActivities(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get activities error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var filter service.ActivityFilter
	if kindParam := r.URL.Query().Get("activity_type"); kindParam != "" {
		kind := entity.ActivityKind(kindParam)
		if !kind.Valid() {
			logger.Error("get activities error: unknown activity type filter")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown activity type", nil)
			return
		}
		filter.Kind = &kind
	}
	if fromParam := r.URL.Query().Get("start_date"); fromParam != "" {
		from, err := time.Parse(dateLayout, fromParam)
		if err != nil {
			logger.Error("get activities error: invalid start_date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "start_date must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.From = &from
	}
	if toParam := r.URL.Query().Get("end_date"); toParam != "" {
		to, err := time.Parse(dateLayout, toParam)
		if err != nil {
			logger.Error("get activities error: invalid end_date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "end_date must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.To = &to
	}
	page, limit := paginationFromQuery(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	activities, err := s.activitiesService.GetUserActivities(ctx, uid, filter, service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		logger.Error("getting activities list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting activities list", nil)
		return
	}
	resp := GetActivitiesResponse{
		UserID:     uid.String(),
		Page:       page,
		Limit:      limit,
		Activities: make([]ActivityResponse, 0, len(activities)),
	}
	for _, a := range activities {
		resp.Activities = append(resp.Activities, toActivityResponse(a))
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("activities provided")
}

func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get activity error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	activity, err := s.activitiesService.GetActivity(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrActivityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get activity error: unexist or foreign activity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "activity doesn't exist", nil)
		default:
			logger.Error("get activity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting activity", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, toActivityResponse(activity))
	logger.Info("activity provided")
}

func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update activity error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity id in path value", nil)
		return
	}
	var req ActivityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update activity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	serviceReq, err := req.toServiceRequest()
	if err != nil {
		logger.Error("update activity error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	activity, err := s.activitiesService.UpdateActivity(ctx, id, uid, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update activity error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity fields", err)
		case errors.Is(err, errorvalues.ErrActivityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update activity error: unexist or foreign activity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "activity doesn't exist", nil)
		default:
			logger.Error("update activity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating activity", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, toActivityResponse(activity))
	logger.Info("activity updated")
}

func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("activity deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("activity deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.activitiesService.DeleteActivity(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrActivityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("activity deletion error: unexist or foreign activity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "activity doesn't exist", nil)
		default:
			logger.Error("activity deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting activity", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("activity deleted")
}

func (s *Server) GetActivityMetrics(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get metrics error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	metrics, err := s.activitiesService.GetMetrics(ctx, uid)
	if err != nil {
		logger.Error("getting metrics error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting activity metrics", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, metrics)
	logger.Info("metrics provided")
}
