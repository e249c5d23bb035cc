package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jam7519/bugtracker-api/internal/domain"
	"go.uber.org/zap"
)

func init() {
	// В ошибках валидации показываем json-имена полей, а не имена структур Go
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Handler содержит ссылку на сервис, через который мы вызываем бизнес-логику
type Handler struct {
	service domain.Service
	logger  *zap.Logger
}

func NewHandler(s domain.Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// --- Service Endpoints ---

// Root возвращает баннер сервиса
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "BugTracker API is running", "health": "/health"})
}

// Health - проба живости
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Bug Management ---

type createBugRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=200"`
	Description string          `json:"description" binding:"required,min=3,max=5000"`
	Priority    domain.Priority `json:"priority" binding:"required,oneof=low medium high critical"`
	Status      domain.Status   `json:"status" binding:"omitempty,oneof=open in_progress closed"`
}

func (h *Handler) CreateBug(c *gin.Context) {
	var req createBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	bug, err := h.service.CreateBug(c.Request.Context(), req.Title, req.Description, req.Priority, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bug)
}

func (h *Handler) ListBugs(c *gin.Context) {
	bugs, err := h.service.ListBugs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bugs)
}

func (h *Handler) GetBug(c *gin.Context) {
	bugID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	bug, err := h.service.GetBug(c.Request.Context(), bugID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bug)
}

// Все поля опциональны: nil означает "поле не передано".
// Явный null в JSON также оставляет указатель пустым и полем не считается.
type updateBugRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string          `json:"description" binding:"omitempty,min=3,max=5000"`
	Priority    *domain.Priority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status      *domain.Status   `json:"status" binding:"omitempty,oneof=open in_progress closed"`
}

func (h *Handler) UpdateBug(c *gin.Context) {
	bugID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	var req updateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	upd := domain.BugUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	bug, err := h.service.UpdateBug(c.Request.Context(), bugID, upd)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bug)
}

// --- Comment Management ---

type createCommentRequest struct {
	Author  string `json:"author" binding:"required,min=1,max=100"`
	Comment string `json:"comment" binding:"required,min=1,max=2000"`
}

func (h *Handler) AddComment(c *gin.Context) {
	bugID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), bugID, req.Author, req.Comment)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ListComments(c *gin.Context) {
	bugID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), bugID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// --- Error Handling Helpers ---

// handleBindError разделяет ошибки разбора тела запроса: нарушения схемы
// отдаем как 422 с картой полей, все остальное (битый JSON) - как 400
func handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = validationMessage(fe)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "invalid value"
	}
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch err {
	case domain.ErrBugNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Bug not found"})
	case domain.ErrEmptyUpdate:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields provided for update"})
	default:
		// Детали внутренней ошибки остаются в логе и не уходят клиенту
		h.logger.Error("Service error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
