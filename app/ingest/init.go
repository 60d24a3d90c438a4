package ingest

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/propline/propline/app/api"
	"github.com/propline/propline/app/canonical"
	"github.com/propline/propline/internal/logger"
)

// Dependencies represents the dependencies needed for the ingest module
type Dependencies struct {
	DB       *gorm.DB
	Odds     OddsProvider
	Builder  *canonical.Builder
	Config   *Config
	Logger   logger.Logger
	JobToken string
}

// Init initializes the ingest module and mounts routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid ingest configuration: " + err.Error())
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(repo, deps.Odds, deps.Builder, config, deps.Logger)
	handler := NewHandler(srvs)

	jobs := r.Group("/jobs")
	jobs.POST("/ingest", api.RequireJobToken(deps.JobToken), handler.RunIngest)
}
