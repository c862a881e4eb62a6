package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/valeriy167/paint-store/internal/db"
	"github.com/valeriy167/paint-store/internal/middleware"
	"gorm.io/gorm"
)

func setupControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	gin.SetMode(gin.TestMode)
	return gin.New(), testDB
}

// as puts identity into the context the way the auth middleware does.
func as(identity *authz.Identity, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.IdentityKey, identity)
		}
		handler(c)
	}
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string, moderator bool) (*model.User, *authz.Identity) {
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsModerator:  moderator,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user, &authz.Identity{UserID: user.ID, Username: username, Moderator: moderator}
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name, price string) *model.Product {
	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		Category: "enamel",
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	return doJSONAuth(router, method, path, "", body)
}

func doJSONAuth(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

type stubChat struct {
	configured bool
	err        error

	mu    sync.Mutex
	texts []string
}

func (s *stubChat) Configured() bool { return s.configured }

func (s *stubChat) SendMessage(ctx context.Context, chatID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return s.err
}

type stubEmail struct {
	configured bool
	err        error

	mu     sync.Mutex
	bodies []string
}

func (s *stubEmail) Configured() bool { return s.configured }

func (s *stubEmail) Send(ctx context.Context, subject, body, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
	return s.err
}
