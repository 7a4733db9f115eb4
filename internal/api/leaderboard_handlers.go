package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/internal/service"
	"github.com/runcrew/stride/pkg/entity"
	"github.com/runcrew/stride/pkg/httputil"
)

type GetLeaderboardResponse struct {
	Month   int                        `json:"month"`
	Year    int                        `json:"year"`
	Page    int                        `json:"page"`
	Limit   int                        `json:"limit"`
	Entries []*entity.LeaderboardEntry `json:"entries"`
}

// periodFromQuery reads month/year params falling back to the current period.
func periodFromQuery(r *http.Request) (month, year int) {
	now := time.Now()
	month, year = int(now.Month()), now.Year()
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		if parsed, err := strconv.Atoi(monthParam); err == nil {
			month = parsed
		}
	}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		if parsed, err := strconv.Atoi(yearParam); err == nil {
			year = parsed
		}
	}
	return month, year
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if _, err := GetUIDFromContext(r); err != nil {
		logger.Error("get leaderboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	month, year := periodFromQuery(r)
	page, limit := paginationFromQuery(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	entries, err := s.leaderboardService.GetRanking(ctx, month, year, service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("get leaderboard error: invalid period")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month or year", err)
		default:
			logger.Error("getting leaderboard error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting leaderboard", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetLeaderboardResponse{
		Month:   month,
		Year:    year,
		Page:    page,
		Limit:   limit,
		Entries: entries,
	})
	logger.Info("leaderboard provided")
}

func (s *Server) RecomputeLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("recompute leaderboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	month, year := periodFromQuery(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	entry, err := s.leaderboardService.Recompute(ctx, uid, month, year)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("recompute leaderboard error: invalid period")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month or year", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("recompute leaderboard error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		default:
			logger.Error("recompute leaderboard error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while recomputing leaderboard", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("leaderboard entry recomputed")
}
