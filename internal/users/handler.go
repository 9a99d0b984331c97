package users

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

// Store is the user persistence surface the handlers need.
type Store interface {
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// RegisterRequest is the body for POST /users.
type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Handler handles identity HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// ListInstructors handles GET /users/instructor (public).
func (h *Handler) ListInstructors(c *gin.Context) {
	list, err := h.store.ListByRole(c.Request.Context(), models.RoleInstructor)
	if err != nil {
		h.logger.Error("list instructors failed", zap.Error(err))
		response.Internal(c, "failed to list instructors")
		return
	}
	response.OK(c, list)
}

// Register handles POST /users. Insert-if-absent by email: a duplicate email
// is a no-op success that never mutates the stored role.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	existing, err := h.store.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("find user failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to register user")
		return
	}
	if existing != nil {
		response.OK(c, gin.H{"message": "user already exists"})
		return
	}

	u := &models.User{Email: req.Email, Name: req.Name}
	if err := h.store.Insert(c.Request.Context(), u); err != nil {
		h.logger.Error("insert user failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to register user")
		return
	}
	response.Created(c, u)
}

// CheckAdmin handles GET /users/admin/:email (self-check). A mismatch between
// the path email and the token email yields a negative answer.
func (h *Handler) CheckAdmin(c *gin.Context) {
	h.checkRole(c, models.RoleAdmin, "admin")
}

// CheckInstructor handles GET /users/instructor/:email (self-check).
func (h *Handler) CheckInstructor(c *gin.Context) {
	h.checkRole(c, models.RoleInstructor, "instructor")
}

func (h *Handler) checkRole(c *gin.Context, role models.Role, key string) {
	email := c.Param("email")
	if email != c.GetString(middleware.ContextUserEmail) {
		response.OK(c, gin.H{key: false})
		return
	}
	u, err := h.store.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("find user failed", zap.Error(err), zap.String("email", email))
		response.Internal(c, "failed to check role")
		return
	}
	response.OK(c, gin.H{key: u != nil && u.Role == role})
}

// GrantAdmin handles PATCH /users/admin/:id (admin only).
func (h *Handler) GrantAdmin(c *gin.Context) {
	h.grantRole(c, models.RoleAdmin)
}

// GrantInstructor handles PATCH /users/instructor/:id (admin only).
func (h *Handler) GrantInstructor(c *gin.Context) {
	h.grantRole(c, models.RoleInstructor)
}

func (h *Handler) grantRole(c *gin.Context, role models.Role) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	modified, err := h.store.UpdateRole(c.Request.Context(), id, role)
	if err != nil {
		h.logger.Error("update role failed", zap.Error(err), zap.String("id", id.Hex()))
		response.Internal(c, "failed to update role")
		return
	}
	response.OK(c, gin.H{"modifiedCount": modified})
}

// Delete handles DELETE /users/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete user failed", zap.Error(err), zap.String("id", id.Hex()))
		response.Internal(c, "failed to delete user")
		return
	}
	response.OK(c, gin.H{"deletedCount": deleted})
}
