package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ostazy-app/ostazy-api/internal/middleware"
	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
	"github.com/ostazy-app/ostazy-api/pkg/response"
)

// DiscoveryService is the handler-facing slice of the discovery service.
type DiscoveryService interface {
	Filter(ctx context.Context, criteria models.FilterCriteria, page, limit int) (*models.DiscoveryResult, error)
	Recommend(ctx context.Context, studentID, query, sortBy string, page, limit int) (*models.DiscoveryResult, error)
}

// DiscoveryHandler serves the tutor listing endpoints.
type DiscoveryHandler struct {
	discovery DiscoveryService
}

// NewDiscoveryHandler constructs a DiscoveryHandler.
func NewDiscoveryHandler(discovery DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// List godoc
// @Summary List tutors
// @Description Public tutor listing with optional filters. Without filters it returns every active tutor.
// @Tags tutors
// @Produce json
// @Param educationSystem query string false "Education system"
// @Param grade query string false "Grade"
// @Param subject query string false "Subject name"
// @Param language query string false "Teaching language"
// @Param sector query string false "Sector"
// @Param governate query string false "Governate"
// @Param district query string false "District"
// @Param minRating query number false "Minimum offering rating"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sortBy query string false "ratingDesc or priceAsc"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=models.DiscoveryResult}
// @Failure 503 {object} response.Envelope
// @Router /tutors [get]
func (h *DiscoveryHandler) List(c *gin.Context) {
	criteria := parseCriteria(c)
	page, limit := parsePageWindow(c)

	result, err := h.discovery.Filter(c.Request.Context(), criteria, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, resultPagination(result))
}

// Recommended godoc
// @Summary Recommended tutors
// @Description Personalised tutor ranking for the authenticated student. Falls back to the plain listing when there is nothing to personalise.
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free-text tutor name boost"
// @Param sortBy query string false "ratingDesc or priceAsc"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=models.DiscoveryResult}
// @Failure 401 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /tutors/recommended [get]
func (h *DiscoveryHandler) Recommended(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page, limit := parsePageWindow(c)
	result, err := h.discovery.Recommend(
		c.Request.Context(),
		claims.UserID,
		c.Query("q"),
		normalizeSortBy(c.Query("sortBy")),
		page, limit,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if result.Fallback {
		meta = map[string]interface{}{"fallback": true}
	}
	response.JSON(c, http.StatusOK, result, resultPagination(result), meta)
}

// parseCriteria reads the filter query string. Unparseable numeric
// values are treated as absent rather than rejected; listing filters are
// forgiving by contract.
func parseCriteria(c *gin.Context) models.FilterCriteria {
	return models.FilterCriteria{
		EducationSystem: c.Query("educationSystem"),
		Grade:           c.Query("grade"),
		Subject:         c.Query("subject"),
		Language:        c.Query("language"),
		Sector:          c.Query("sector"),
		Governate:       c.Query("governate"),
		District:        c.Query("district"),
		MinRating:       queryFloat(c, "minRating"),
		MinPrice:        queryFloat(c, "minPrice"),
		MaxPrice:        queryFloat(c, "maxPrice"),
		SortBy:          normalizeSortBy(c.Query("sortBy")),
	}
}

var queryValidator = validator.New()

// normalizeSortBy drops unknown sort preferences instead of rejecting
// the request.
func normalizeSortBy(raw string) string {
	if raw == "" {
		return ""
	}
	if err := queryValidator.Var(raw, "oneof=ratingDesc priceAsc"); err != nil {
		return ""
	}
	return raw
}

func parsePageWindow(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	return page, limit
}

func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func resultPagination(result *models.DiscoveryResult) *models.Pagination {
	return &models.Pagination{
		Page:       result.Page,
		PageSize:   result.Limit,
		TotalCount: result.Total,
		HasMore:    result.Page*result.Limit < result.Total,
	}
}
