package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/runcrew/stride/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	activitiesService  service.ActivitiesServiceI
	leaderboardService service.LeaderboardServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	ActivitiesService  service.ActivitiesServiceI
	LeaderboardService service.LeaderboardServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		activitiesService:  servicesOptions.ActivitiesService,
		leaderboardService: servicesOptions.LeaderboardService,
		jwtService:         servicesOptions.JwtService,
	}
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/users/{id}", s.GetUser)
			r.Put("/users/{id}", s.UpdateUser)
			r.Delete("/users/{id}", s.DeleteUser)
			r.Post("/activities", s.CreateActivity)
			r.Get("/activities", s.GetActivities)
			r.Get("/activities/metrics", s.GetActivityMetrics)
			r.Get("/activities/{id}", s.GetActivity)
			r.Put("/activities/{id}", s.UpdateActivity)
			// PATCH takes the full payload too, absent fields reset
			r.Patch("/activities/{id}", s.UpdateActivity)
			r.Delete("/activities/{id}", s.DeleteActivity)
			r.Get("/leaderboard", s.GetLeaderboard)
			r.Post("/leaderboard/recompute", s.RecomputeLeaderboard)
		})
	})
}

func (s *Server) Run(address string) error {
	s.registerRoutes()
	return http.ListenAndServe(address, s.mx)
}
