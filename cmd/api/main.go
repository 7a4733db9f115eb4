// @title Stride API
// @description API for fitness activity tracker "Stride"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/runcrew/stride/internal/api"
	"github.com/runcrew/stride/internal/repository"
	"github.com/runcrew/stride/internal/service"
	"github.com/runcrew/stride/pkg/cleanup"
	"github.com/runcrew/stride/pkg/config"
	jwtservice "github.com/runcrew/stride/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	activitiesRepo := repository.NewActivitiesRepo(&dbCfg)
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	activitiesService := service.NewActivitiesService(activitiesRepo)
	leaderboardService := service.NewLeaderboardService(activitiesRepo, repository.NewLeaderboardRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		UserService:        userService,
		ActivitiesService:  activitiesService,
		LeaderboardService: leaderboardService,
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
