package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/db"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string, moderator bool) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsModerator:  moderator,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createProduct(t *testing.T, testDB *gorm.DB, name, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		Category: "enamel",
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func intPtr(v int) *int       { return &v }
func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

type fakeChat struct {
	configured bool
	err        error
	delay      time.Duration

	mu     sync.Mutex
	chatID string
	texts  []string
}

func (f *fakeChat) Configured() bool { return f.configured }

func (f *fakeChat) SendMessage(ctx context.Context, chatID, text string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatID = chatID
	f.texts = append(f.texts, text)
	return f.err
}

type sentEmail struct {
	subject, body, from, to string
}

type fakeEmail struct {
	configured bool
	err        error

	mu   sync.Mutex
	sent []sentEmail
}

func (f *fakeEmail) Configured() bool { return f.configured }

func (f *fakeEmail) Send(ctx context.Context, subject, body, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{subject: subject, body: body, from: from, to: to})
	return f.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return false, errors.New("redis: connection refused")
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
