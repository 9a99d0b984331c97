package selections

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

// Store is the cart persistence surface the handlers need.
type Store interface {
	ListByEmail(ctx context.Context, email string) ([]models.Selection, error)
	Insert(ctx context.Context, s *models.Selection) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// AddRequest is the body for POST /selectedClasses.
type AddRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	ClassID string  `json:"classId" binding:"required"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Price   float64 `json:"price"`
}

// Handler handles cart HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a selections handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /selectedClasses?email=. The token email must match the
// queried email; a missing email parameter yields an empty list, not an
// error.
func (h *Handler) List(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.OK(c, []models.Selection{})
		return
	}
	if email != c.GetString(middleware.ContextUserEmail) {
		response.Forbidden(c, "forbidden access")
		return
	}
	list, err := h.store.ListByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list selections failed", zap.Error(err), zap.String("email", email))
		response.Internal(c, "failed to list selections")
		return
	}
	response.OK(c, list)
}

// Add handles POST /selectedClasses (public). Blind insert, no duplicate
// check.
func (h *Handler) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s := &models.Selection{
		Email:   req.Email,
		ClassID: req.ClassID,
		Name:    req.Name,
		Image:   req.Image,
		Price:   req.Price,
	}
	if err := h.store.Insert(c.Request.Context(), s); err != nil {
		h.logger.Error("insert selection failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to add selection")
		return
	}
	response.Created(c, s)
}

// Remove handles DELETE /selectedClasses/:id. Any authenticated user may
// delete any selection by id; there is no ownership check beyond the token.
func (h *Handler) Remove(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid selection id")
		return
	}
	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete selection failed", zap.Error(err), zap.String("id", id.Hex()))
		response.Internal(c, "failed to delete selection")
		return
	}
	response.OK(c, gin.H{"deletedCount": deleted})
}
