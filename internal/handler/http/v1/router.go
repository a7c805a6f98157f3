package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	apiKey := APIKeyAuthMiddleware(h.cfg, h.logger)

	// Обращения граждан
	issues := api.Group("/issues")
	{
		issues.POST("", ReportRateLimitMiddleware(h.limiter, h.logger), h.createIssue)
		issues.GET("", h.listIssues)
		issues.GET("/:id", h.getIssue)
		issues.PATCH("/:id/status", apiKey, h.updateIssueStatus)
	}

	api.GET("/reporters/:id/issues", h.listReporterIssues)

	// Кабинет ответственного: пересчет баллов при чтении
	authority := api.Group("/authority", apiKey)
	{
		authority.GET("/blocks/:block/issues", h.listAuthorityIssues)
	}

	// Индекс риска и аналитика
	api.GET("/cri/:district", h.getDistrictRisk)
	api.GET("/analytics", apiKey, h.getAnalytics)

	api.GET("/locations", h.getLocations)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
