package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"person-registry/internal/domains/person/model"
	"person-registry/internal/domains/person/service"
	"person-registry/internal/shared/middleware"
	"person-registry/internal/shared/response"
)

type PersonHandler struct {
	service service.ServiceInterface
}

func NewPersonHandler(svc service.ServiceInterface) *PersonHandler {
	return &PersonHandler{
		service: svc,
	}
}

// RegisterRoutes mounts the person endpoints on r.
func RegisterRoutes(r gin.IRoutes, h *PersonHandler) {
	r.POST("/people", h.Create)
	r.GET("/people/:id", h.GetByID)
	r.GET("/people", h.Search)
	r.GET("/people-count", h.Count)
	r.POST("/people/cache", h.Intake)
	r.GET("/health", h.Health)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /people
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) Create(c *gin.Context) {
	var req model.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Well-formed JSON with a mistyped field is invalid input, not a bad request
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field, msg := typeErr.Field, "must be a "+typeErr.Type.String()
			if field == "" {
				field, msg = "body", "must be a JSON object"
			}
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, model.ToErrorCode(model.ErrInvalidInput),
				"validation failed", gin.H{field: msg})
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", "/people/"+p.ID)
	c.JSON(http.StatusCreated, p)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /people/:id
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) GetByID(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ════════════════════════════════════════════════════════════════
// SEARCH: GET /people?t=term
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) Search(c *gin.Context) {
	people, err := h.service.Search(c.Request.Context(), c.Query("t"))
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			response.BadRequest(c, "Query parameter 't' is required")
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

// ════════════════════════════════════════════════════════════════
// COUNT: GET /people-count (plain text)
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) Count(c *gin.Context) {
	n, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.String(http.StatusOK, strconv.FormatInt(n, 10))
}

// ════════════════════════════════════════════════════════════════
// INTAKE: POST /people/cache (sibling replication, internal)
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) Intake(c *gin.Context) {
	var p model.Person
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "Invalid person payload")
		return
	}

	if err := h.service.Intake(c.Request.Context(), p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	c.Status(http.StatusOK)
}

// ════════════════════════════════════════════════════════════════
// HEALTH: GET /health
// ════════════════════════════════════════════════════════════════

func (h *PersonHandler) Health(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		response.ServiceUnavailable(c, "database unavailable")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the error envelope for a service error
func (h *PersonHandler) fail(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	code := model.ToErrorCode(err)

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, status, code, "validation failed", verr.Fields)
		return
	}

	if status < http.StatusInternalServerError {
		response.ErrorResponse(c, status, code, err.Error())
		return
	}

	log.Error().Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")

	// Internal details stay in the log
	message := "internal server error"
	if errors.Is(err, model.ErrResourceExhausted) {
		message = model.ErrResourceExhausted.Error()
	}
	response.ErrorResponse(c, status, code, message)
}
