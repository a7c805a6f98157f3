package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/Eusa190/FIXITY-CRI/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportLimiter ограничивает частоту создания обращений
type ReportLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Handler struct {
	issueService service.IssueService
	limiter      ReportLimiter
	logger       *logrus.Logger
	validate     *validator.Validate
	cfg          *config.Config
}

// NewHandler создает обработчик. limiter может быть nil, тогда ограничение частоты отключено.
func NewHandler(issueService service.IssueService, limiter ReportLimiter, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		issueService: issueService,
		limiter:      limiter,
		logger:       logger,
		validate:     validator.New(),
		cfg:          cfg,
	}
}

// @Summary Report a new issue
// @Description Create a new civic issue. The initial severity score uses the reporter's trust. Rate-limited per reporter_id, or per client IP for anonymous reports.
// @Tags Issues
// @Accept json
// @Produce json
// @Param issue body CreateIssueRequest true "Issue creation request"
// @Success 201 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 429 {object} map[string]any "Rate limit exceeded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues [post]
func (h *Handler) createIssue(c *gin.Context) {
	var input CreateIssueRequest
	log := h.logger.WithField("method", "createIssue")

	if err := c.ShouldBindBodyWithJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIssueModel(input)
	if err := h.issueService.CreateIssue(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create issue in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIssueResponse(model))
}

// @Summary Get the community feed
// @Description Get a paginated list of issues, newest first.
// @Tags Issues
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(50)
// @Success 200 {array} IssueResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues [get]
func (h *Handler) listIssues(c *gin.Context) {
	log := h.logger.WithField("method", "listIssues")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	issues, err := h.issueService.ListIssues(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list issues from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIssueResponses(issues))
}

// @Summary Get issue by ID
// @Description Get a single issue by its ID.
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id} [get]
func (h *Handler) getIssue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue ID"})
		return
	}
	log := h.logger.WithField("method", "getIssue").WithField("id", id)

	issue, err := h.issueService.GetIssue(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			log.WithError(err).Warn("Issue not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		log.WithError(err).Error("Failed to get issue from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}

// @Summary Get a reporter's issues
// @Description Get all issues filed by one reporter, newest first.
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path string true "Reporter ID"
// @Success 200 {array} IssueResponse
// @Failure 400 {object} map[string]string "Invalid reporter ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reporters/{id}/issues [get]
func (h *Handler) listReporterIssues(c *gin.Context) {
	reporterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reporter ID"})
		return
	}
	log := h.logger.WithField("method", "listReporterIssues").WithField("reporter_id", reporterID)

	issues, err := h.issueService.ListReporterIssues(c.Request.Context(), reporterID)
	if err != nil {
		log.WithError(err).Error("Failed to list reporter issues from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIssueResponses(issues))
}

// @Summary Update issue status
// @Description Change an issue's status. Resolving zeroes its score and records the resolution time. Requires API key.
// @Tags Authority
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Issue ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id}/status [patch]
func (h *Handler) updateIssueStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue ID"})
		return
	}
	log := h.logger.WithField("method", "updateIssueStatus").WithField("id", id)

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issueService.UpdateStatus(c.Request.Context(), id, models.IssueStatus(input.Status))
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			log.WithError(err).Warn("Issue not found for status update")
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		log.WithError(err).Error("Failed to update issue status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue status"})
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}

// @Summary Get unresolved issues of a block
// @Description Get open issues of a block ordered by severity score. Scores are recomputed and persisted on read. Requires API key.
// @Tags Authority
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param block path string true "Block name"
// @Success 200 {array} IssueResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /authority/blocks/{block}/issues [get]
func (h *Handler) listAuthorityIssues(c *gin.Context) {
	block := c.Param("block")
	log := h.logger.WithField("method", "listAuthorityIssues").WithField("block", block)

	issues, err := h.issueService.ListAuthorityIssues(c.Request.Context(), block)
	if err != nil {
		log.WithError(err).Error("Failed to list authority issues from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIssueResponses(issues))
}

// @Summary Get district risk map
// @Description Get the per-block risk rollup of a district with color bands.
// @Tags CRI
// @Accept json
// @Produce json
// @Param district path string true "District name"
// @Success 200 {array} models.BlockRisk
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cri/{district} [get]
func (h *Handler) getDistrictRisk(c *gin.Context) {
	district := c.Param("district")
	log := h.logger.WithField("method", "getDistrictRisk").WithField("district", district)

	blocks, err := h.issueService.GetDistrictRisk(c.Request.Context(), district)
	if err != nil {
		log.WithError(err).Error("Failed to get district risk from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// @Summary Get CRI analytics
// @Description Get summary, pillars, trend, hotspots and category distribution. Scoped to a block when given. Requires API key.
// @Tags CRI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param block query string false "Block name"
// @Success 200 {object} models.Analytics
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics [get]
func (h *Handler) getAnalytics(c *gin.Context) {
	block := strings.TrimSpace(c.Query("block"))
	log := h.logger.WithField("method", "getAnalytics").WithField("block", block)

	result, err := h.issueService.GetAnalytics(c.Request.Context(), block)
	if err != nil {
		log.WithError(err).Error("Failed to get analytics from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Get location hierarchy
// @Description Get the state, district and block hierarchy.
// @Tags Locations
// @Produce json
// @Success 200 {object} map[string]map[string][]string
// @Router /locations [get]
func (h *Handler) getLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.issueService.GetLocations())
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
