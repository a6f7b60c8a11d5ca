package app

import (
	"edu_analytics_backend/internal/config"
	"edu_analytics_backend/internal/middleware"
	"edu_analytics_backend/internal/model"

	"edu_analytics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 分析
		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/students", c.analytics.GetStudents)
			analytics.GET("/students/:name/skills", c.analytics.GetSkillScores)
			analytics.GET("/students/:name/report", c.analytics.GetSkillReport)

			// 图表产物
			analytics.POST("/students/:name/charts/skill-radar", c.analytics.RenderSkillRadar)
			analytics.POST("/students/:name/lectures/:lecture/charts/study-time", c.analytics.RenderStudyTimeChart)
			analytics.POST("/students/:name/lectures/:lecture/charts/incorrect-count", c.analytics.RenderIncorrectCountChart)
		}

		// 数据集管理，仅教师/管理员
		datasets := authGroup.Group("/datasets")
		datasets.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
		{
			datasets.POST("/import", c.dataset.ImportWorkbook)
		}
	}
}
