package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/config"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/api/handler"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/api/middleware"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/identity"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/jwt"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时跳过限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, resolver *identity.Resolver, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, resolver))
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
	}
	admin := middleware.RequireAdmin()

	// 目录层级
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/branches", h.Catalog.ListBranches)
		catalog.POST("/branches", admin, h.Catalog.AddBranch)
		catalog.DELETE("/branches/:name", admin, h.Catalog.DeleteBranch)
		catalog.GET("/branches/:name/specializations", h.Catalog.ListSpecializations)
		catalog.POST("/branches/:name/specializations", admin, h.Catalog.AddSpecialization)

		catalog.GET("/years", h.Catalog.ListYears)
		catalog.POST("/years", admin, h.Catalog.AddYear)
		catalog.DELETE("/years/:year", admin, h.Catalog.DeleteYear)
		catalog.GET("/years/:year/semesters", h.Catalog.ListSemesters)
	}

	// 科目
	subjects := v1.Group("/subjects")
	{
		subjects.GET("", h.Subject.ListSubjects)
		subjects.GET("/:id", h.Subject.GetSubject)
		subjects.POST("", admin, h.Subject.CreateSubject)
		subjects.PUT("/:id", admin, h.Subject.UpdateSubject)
		subjects.DELETE("/:id", admin, h.Subject.DeleteSubject)
	}

	// 学习进度（仅本人）
	progress := v1.Group("/progress")
	{
		progress.GET("", h.Progress.GetProgress)
		progress.GET("/dashboard", h.Progress.Dashboard)
		progress.PUT("/subjects/:id/modules/:index", h.Progress.UpdateModuleStatus)
	}

	// 偏好
	preferences := v1.Group("/preferences")
	{
		preferences.GET("", h.Preference.LoadPreferences)
		preferences.PUT("", h.Preference.ChangePreferences)
	}

	// 管理端
	adminGroup := v1.Group("/admin", admin)
	{
		analytics := adminGroup.Group("/analytics/users")
		{
			analytics.GET("", h.Analytics.ListUsers)
			analytics.GET("/:uid/kpis", h.Analytics.SubjectKPIs)
			analytics.GET("/:uid/kras", h.Analytics.SemesterKRAs)
			analytics.GET("/:uid/yearly", h.Analytics.YearlyProgress)
			analytics.GET("/:uid/report", h.Analytics.Report)
			analytics.GET("/:uid/export", h.Analytics.Export)
		}

		copyGroup := adminGroup.Group("/copy")
		{
			copyGroup.GET("/candidates", h.Copy.ListCandidates)
			copyGroup.POST("", h.Copy.Copy)
		}
	}

	return r
}
