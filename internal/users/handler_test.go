package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/martial-dojo/backend/internal/auth"
	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

type fakeStore struct {
	users []models.User
	calls int
}

func (f *fakeStore) List(context.Context) ([]models.User, error) {
	f.calls++
	return f.users, nil
}

func (f *fakeStore) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	f.calls++
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.calls++
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RoleByEmail(ctx context.Context, email string) (models.Role, error) {
	u, err := f.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return models.RoleNone, err
	}
	return u.Role, nil
}

func (f *fakeStore) Insert(_ context.Context, u *models.User) error {
	f.calls++
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeStore) UpdateRole(_ context.Context, id primitive.ObjectID, role models.Role) (int64, error) {
	f.calls++
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = role
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.calls++
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func authedContext(email string) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(middleware.ContextUserEmail, email) }
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateIsNoOp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	h := NewHandler(store, nil)
	router := gin.New()
	router.POST("/users", h.Register)

	w := doJSON(router, http.MethodPost, "/users", gin.H{"email": "kid@dojo.io", "name": "Kid"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first registration: expected 201, got %d", w.Code)
	}

	// promote, then register the same email again
	store.users[0].Role = models.RoleInstructor

	w = doJSON(router, http.MethodPost, "/users", gin.H{"email": "kid@dojo.io", "name": "Kid"})
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate registration: expected 200, got %d", w.Code)
	}
	var body response.Body
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, _ := body.Data.(map[string]interface{})
	if data["message"] != "user already exists" {
		t.Errorf("expected already-exists message, got %v", body.Data)
	}

	if len(store.users) != 1 {
		t.Fatalf("expected exactly one user document, got %d", len(store.users))
	}
	if store.users[0].Role != models.RoleInstructor {
		t.Errorf("duplicate registration mutated role to %q", store.users[0].Role)
	}
}

func TestAdminRouteWithoutTokenSkipsStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{users: []models.User{{Email: "boss@dojo.io", Role: models.RoleAdmin}}}
	h := NewHandler(store, nil)
	svc := auth.NewJWTService("test-secret", 1)

	router := gin.New()
	router.GET("/users", middleware.JWT(svc), middleware.RequireRole(store, models.RoleAdmin), h.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if store.calls != 0 {
		t.Errorf("expected no store access for rejected request, got %d calls", store.calls)
	}
}

func TestCheckAdminSelfAndOther(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{users: []models.User{{ID: primitive.NewObjectID(), Email: "boss@dojo.io", Role: models.RoleAdmin}}}
	h := NewHandler(store, nil)
	router := gin.New()
	router.GET("/users/admin/:email", authedContext("boss@dojo.io"), h.CheckAdmin)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"own email with admin role", "/users/admin/boss@dojo.io", true},
		{"someone else's email", "/users/admin/other@dojo.io", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body response.Body
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			data, _ := body.Data.(map[string]interface{})
			if data["admin"] != tt.want {
				t.Errorf("expected admin=%v, got %v", tt.want, data["admin"])
			}
		})
	}
}

func TestGrantInstructor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()
	store := &fakeStore{users: []models.User{{ID: id, Email: "kid@dojo.io"}}}
	h := NewHandler(store, nil)
	router := gin.New()
	router.PATCH("/users/instructor/:id", h.GrantInstructor)

	w := doJSON(router, http.MethodPatch, "/users/instructor/"+id.Hex(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.users[0].Role != models.RoleInstructor {
		t.Errorf("expected role instructor, got %q", store.users[0].Role)
	}
}

func TestDeleteUserInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	h := NewHandler(store, nil)
	router := gin.New()
	router.DELETE("/users/:id", h.Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/not-an-id", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if store.calls != 0 {
		t.Errorf("expected no store access for invalid id, got %d calls", store.calls)
	}
}

func TestListInstructors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{users: []models.User{
		{ID: primitive.NewObjectID(), Email: "sensei@dojo.io", Role: models.RoleInstructor},
		{ID: primitive.NewObjectID(), Email: "kid@dojo.io"},
	}}
	h := NewHandler(store, nil)
	router := gin.New()
	router.GET("/users/instructor", h.ListInstructors)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/instructor", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data []models.User `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Email != "sensei@dojo.io" {
		t.Errorf("expected only the instructor, got %+v", body.Data)
	}
}
