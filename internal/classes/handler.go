package classes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

// PopularLimit caps the popular-classes view.
const PopularLimit = 6

// Store is the catalog persistence surface the handlers need.
type Store interface {
	List(ctx context.Context) ([]models.Class, error)
	ListApproved(ctx context.Context) ([]models.Class, error)
	ListPopular(ctx context.Context, limit int64) ([]models.Class, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Class, error)
	Insert(ctx context.Context, cl *models.Class) error
	UpdateFeedback(ctx context.Context, id primitive.ObjectID, feedback string) (int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClassStatus) (int64, error)
}

// CreateRequest is the body for POST /classes.
type CreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Image           string  `json:"image"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" binding:"required,email"`
	Price           float64 `json:"price"`
	AvailableSeats  int     `json:"availableSeats"`
}

// FeedbackRequest is the body for PATCH /classes/feedback/:id.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// StatusRequest is the body for PATCH /classes/admin/:id.
type StatusRequest struct {
	Status models.ClassStatus `json:"status" binding:"required,oneof=pending approved denied"`
}

// Handler handles catalog HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a classes handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /classes (any valid token).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list classes failed", zap.Error(err))
		response.Internal(c, "failed to list classes")
		return
	}
	response.OK(c, list)
}

// ListApproved handles GET /classes/approved (public).
func (h *Handler) ListApproved(c *gin.Context) {
	list, err := h.store.ListApproved(c.Request.Context())
	if err != nil {
		h.logger.Error("list approved classes failed", zap.Error(err))
		response.Internal(c, "failed to list classes")
		return
	}
	response.OK(c, list)
}

// ListPopular handles GET /api/classes/approved/dsc (public): the top
// approved classes by enrollment.
func (h *Handler) ListPopular(c *gin.Context) {
	list, err := h.store.ListPopular(c.Request.Context(), PopularLimit)
	if err != nil {
		h.logger.Error("list popular classes failed", zap.Error(err))
		response.Internal(c, "failed to list classes")
		return
	}
	response.OK(c, list)
}

// ListByInstructor handles GET /api/classes (public) with an optional
// ?email= filter on instructorEmail.
func (h *Handler) ListByInstructor(c *gin.Context) {
	list, err := h.store.ListByInstructor(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.logger.Error("list classes by instructor failed", zap.Error(err))
		response.Internal(c, "failed to list classes")
		return
	}
	response.OK(c, list)
}

// Create handles POST /classes (instructor only). New classes always start
// pending with zero enrollment, whatever the request claims.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	cl := &models.Class{
		Name:            req.Name,
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		Price:           req.Price,
		AvailableSeats:  req.AvailableSeats,
		Enrolled:        0,
		Status:          models.ClassStatusPending,
	}
	if err := h.store.Insert(c.Request.Context(), cl); err != nil {
		h.logger.Error("insert class failed", zap.Error(err), zap.String("instructor", req.InstructorEmail))
		response.Internal(c, "failed to create class")
		return
	}
	response.Created(c, cl)
}

// UpdateFeedback handles PATCH /classes/feedback/:id.
func (h *Handler) UpdateFeedback(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid class id")
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	modified, err := h.store.UpdateFeedback(c.Request.Context(), id, req.Feedback)
	if err != nil {
		h.logger.Error("update feedback failed", zap.Error(err), zap.String("id", id.Hex()))
		response.Internal(c, "failed to update feedback")
		return
	}
	response.OK(c, gin.H{"modifiedCount": modified})
}

// UpdateStatus handles PATCH /classes/admin/:id (approve/deny workflow).
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid class id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	modified, err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update status failed", zap.Error(err), zap.String("id", id.Hex()))
		response.Internal(c, "failed to update status")
		return
	}
	response.OK(c, gin.H{"modifiedCount": modified})
}
