package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
)

type fakeLedger struct {
	payments []models.Payment
	fail     bool
}

func (f *fakeLedger) Insert(_ context.Context, p *models.Payment) error {
	if f.fail {
		return errors.New("ledger down")
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeLedger) ListByEmail(_ context.Context, email string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCart struct {
	deleted []primitive.ObjectID
	calls   int
}

func (f *fakeCart) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	f.calls++
	f.deleted = append(f.deleted, ids...)
	return int64(len(ids)), nil
}

type fakeCatalog struct {
	applied []primitive.ObjectID
	calls   int
}

func (f *fakeCatalog) ApplyEnrollment(_ context.Context, ids []primitive.ObjectID) error {
	f.calls++
	f.applied = append(f.applied, ids...)
	return nil
}

type fakeIntents struct {
	amounts []int64
	fail    bool
}

func (f *fakeIntents) CreateIntent(_ context.Context, amount int64) (string, error) {
	if f.fail {
		return "", errors.New("processor down")
	}
	f.amounts = append(f.amounts, amount)
	return "cs_test_secret", nil
}

type deps struct {
	ledger  *fakeLedger
	cart    *fakeCart
	catalog *fakeCatalog
	intents *fakeIntents
}

func newRouter(email string) (*gin.Engine, *deps) {
	gin.SetMode(gin.TestMode)
	d := &deps{ledger: &fakeLedger{}, cart: &fakeCart{}, catalog: &fakeCatalog{}, intents: &fakeIntents{}}
	h := NewHandler(d.ledger, d.cart, d.catalog, d.intents, nil)
	router := gin.New()
	authed := func(c *gin.Context) { c.Set(middleware.ContextUserEmail, email) }
	router.POST("/create-payment-intent", authed, h.CreateIntent)
	router.POST("/payments", authed, h.Settle)
	router.GET("/enrolled", authed, h.Enrolled)
	return router, d
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIntentMinorUnits(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int64
	}{
		{"whole dollars", 20, 2000},
		{"cents", 19.99, 1999},
		{"sub-cent truncated", 19.999, 1999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, d := newRouter("kid@dojo.io")
			w := postJSON(router, "/create-payment-intent", gin.H{"price": tt.price})
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if len(d.intents.amounts) != 1 || d.intents.amounts[0] != tt.want {
				t.Errorf("expected amount %d, got %v", tt.want, d.intents.amounts)
			}
			var body struct {
				Data map[string]string `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Data["clientSecret"] != "cs_test_secret" {
				t.Errorf("expected client secret in response, got %v", body.Data)
			}
		})
	}
}

func TestCreateIntentProcessorFailure(t *testing.T) {
	router, d := newRouter("kid@dojo.io")
	d.intents.fail = true

	w := postJSON(router, "/create-payment-intent", gin.H{"price": 10})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestSettleUpdatesEveryClass(t *testing.T) {
	router, d := newRouter("kid@dojo.io")
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	w := postJSON(router, "/payments", gin.H{
		"transactionId": "pi_123",
		"price":         99.0,
		"course":        []string{a.Hex(), b.Hex()},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(d.ledger.payments) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(d.ledger.payments))
	}
	p := d.ledger.payments[0]
	if p.Email != "kid@dojo.io" || p.TransactionID != "pi_123" || p.ClassCount != 2 {
		t.Errorf("unexpected ledger entry: %+v", p)
	}

	if len(d.cart.deleted) != 2 {
		t.Errorf("expected both selections deleted, got %v", d.cart.deleted)
	}
	if len(d.catalog.applied) != 2 {
		t.Errorf("expected counters applied to both classes, got %v", d.catalog.applied)
	}
	if d.catalog.applied[0] != a || d.catalog.applied[1] != b {
		t.Errorf("expected counters for %s and %s, got %v", a.Hex(), b.Hex(), d.catalog.applied)
	}
}

func TestSettleInvalidCourseID(t *testing.T) {
	router, d := newRouter("kid@dojo.io")

	w := postJSON(router, "/payments", gin.H{
		"transactionId": "pi_123",
		"course":        []string{"not-an-object-id"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(d.ledger.payments) != 0 || d.cart.calls != 0 || d.catalog.calls != 0 {
		t.Error("expected no writes for invalid course id")
	}
}

func TestSettleLedgerFailureStopsSequence(t *testing.T) {
	router, d := newRouter("kid@dojo.io")
	d.ledger.fail = true

	w := postJSON(router, "/payments", gin.H{
		"transactionId": "pi_123",
		"course":        []string{primitive.NewObjectID().Hex()},
	})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if d.cart.calls != 0 || d.catalog.calls != 0 {
		t.Error("later writes ran despite ledger failure")
	}
}

func TestEnrolledListsOwnPayments(t *testing.T) {
	router, d := newRouter("kid@dojo.io")
	d.ledger.payments = []models.Payment{
		{ID: primitive.NewObjectID(), Email: "kid@dojo.io", TransactionID: "pi_1"},
		{ID: primitive.NewObjectID(), Email: "other@dojo.io", TransactionID: "pi_2"},
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/enrolled", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data []models.Payment `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].TransactionID != "pi_1" {
		t.Errorf("expected only own payments, got %+v", body.Data)
	}
}
