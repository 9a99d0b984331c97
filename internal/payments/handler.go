package payments

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

// LedgerStore is the payment ledger surface the handlers need.
type LedgerStore interface {
	Insert(ctx context.Context, p *models.Payment) error
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

// CartStore removes settled selections.
type CartStore interface {
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// CatalogStore applies enrollment counters to settled classes.
type CatalogStore interface {
	ApplyEnrollment(ctx context.Context, ids []primitive.ObjectID) error
}

// IntentCreator requests a payment intent from the external processor and
// returns its client secret. Implemented by StripeClient.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

// IntentRequest is the body for POST /create-payment-intent.
type IntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// SettleRequest is the body for POST /payments.
type SettleRequest struct {
	TransactionID string   `json:"transactionId" binding:"required"`
	Price         float64  `json:"price"`
	Course        []string `json:"course" binding:"required,min=1"`
}

// Handler orchestrates payment endpoints: intent creation against the
// processor and the settlement write sequence across the three stores.
type Handler struct {
	ledger  LedgerStore
	cart    CartStore
	catalog CatalogStore
	intents IntentCreator
	logger  *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(ledger LedgerStore, cart CartStore, catalog CatalogStore, intents IntentCreator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ledger: ledger, cart: cart, catalog: catalog, intents: intents, logger: logger}
}

// CreateIntent handles POST /create-payment-intent. The price is converted to
// integer minor units by truncation. Processor failures propagate to the
// caller; there is no retry.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	// price arrives as a float; nudge before truncating so 19.99 maps to
	// 1999 rather than 1998 from the binary representation
	amount := int64(req.Price*100 + 1e-6)
	secret, err := h.intents.CreateIntent(c.Request.Context(), amount)
	if err != nil {
		h.logger.Error("create payment intent failed", zap.Error(err), zap.Int64("amount", amount))
		response.BadGateway(c, "payment processor error")
		return
	}
	response.OK(c, gin.H{"clientSecret": secret})
}

// Settle handles POST /payments: the post-confirmation write sequence.
// In order: append the payment to the ledger, delete the settled selections,
// then bump seat and enrollment counters on every purchased class. The three
// writes are independent; a failure partway through leaves the earlier writes
// in place.
func (h *Handler) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.Course))
	for _, raw := range req.Course {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "invalid course id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	email := c.GetString(middleware.ContextUserEmail)
	payment := &models.Payment{
		Email:         email,
		TransactionID: req.TransactionID,
		Price:         req.Price,
		Date:          time.Now(),
		Course:        req.Course,
		ClassCount:    len(req.Course),
	}
	if err := h.ledger.Insert(c.Request.Context(), payment); err != nil {
		h.logger.Error("insert payment failed", zap.Error(err), zap.String("email", email))
		response.Internal(c, "failed to record payment")
		return
	}

	deleted, err := h.cart.DeleteByIDs(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("delete selections failed", zap.Error(err), zap.String("transaction_id", req.TransactionID))
		response.Internal(c, "payment recorded but cart cleanup failed")
		return
	}

	if err := h.catalog.ApplyEnrollment(c.Request.Context(), ids); err != nil {
		h.logger.Error("apply enrollment failed", zap.Error(err), zap.String("transaction_id", req.TransactionID))
		response.Internal(c, "payment recorded but enrollment update failed")
		return
	}

	response.OK(c, gin.H{
		"insertResult": gin.H{"insertedId": payment.ID},
		"deleteResult": gin.H{"deletedCount": deleted},
	})
}

// Enrolled handles GET /enrolled: the authenticated user's payment history.
func (h *Handler) Enrolled(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)
	list, err := h.ledger.ListByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err), zap.String("email", email))
		response.Internal(c, "failed to list payments")
		return
	}
	response.OK(c, list)
}
