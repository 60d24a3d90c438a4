package resolve

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/propline/propline/app/api"
	"github.com/propline/propline/internal/logger"
)

// Dependencies represents the dependencies needed for the resolve module
type Dependencies struct {
	DB       *gorm.DB
	Scores   ScoreProvider
	Stats    StatsProvider
	Settler  Settler
	Config   *Config
	Logger   logger.Logger
	JobToken string
}

// Init initializes the resolve module and mounts routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid resolve configuration: " + err.Error())
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(repo, deps.Scores, deps.Stats, deps.Settler, config, deps.Logger)
	handler := NewHandler(srvs)

	jobs := r.Group("/jobs")
	jobs.POST("/resolve", api.RequireJobToken(deps.JobToken), handler.RunResolve)
}
