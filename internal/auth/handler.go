package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/martial-dojo/backend/pkg/response"
)

// TokenRequest is the body for POST /jwt. Identity is established by the
// upstream sign-in provider; this endpoint mints the API token for it.
type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenResponse is the issued API token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler handles token issuance.
type Handler struct {
	jwt *JWTService
}

// NewHandler creates an auth handler.
func NewHandler(jwt *JWTService) *Handler {
	return &Handler{jwt: jwt}
}

// IssueToken handles POST /jwt.
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	token, err := h.jwt.Generate(req.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{Token: token})
}
