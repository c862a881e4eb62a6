package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/valeriy167/paint-store/internal/app/model"
)

func TestResolveContact(t *testing.T) {
	user := &model.User{
		Username:  "ivan",
		Email:     "ivan@example.com",
		FirstName: "Ivan",
		Phone:     "+7 900 000-00-01",
	}

	tests := []struct {
		name      string
		overrides ContactOverrides
		want      ContactDetails
	}{
		{
			name: "Profile only",
			want: ContactDetails{Name: "Ivan", Phone: "+7 900 000-00-01", Email: "ivan@example.com"},
		},
		{
			name:      "Override wins",
			overrides: ContactOverrides{Name: "Olga", Telegram: "@olga"},
			want:      ContactDetails{Name: "Olga", Phone: "+7 900 000-00-01", Email: "ivan@example.com", Telegram: "@olga"},
		},
		{
			name:      "Blank override falls back",
			overrides: ContactOverrides{Phone: "   "},
			want:      ContactDetails{Name: "Ivan", Phone: "+7 900 000-00-01", Email: "ivan@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveContact(user, tt.overrides))
		})
	}
}

func TestOrderSnapshot_Render(t *testing.T) {
	items := []model.CartItem{
		{ProductID: 1, Quantity: 2, Product: model.Product{Name: "A", Price: decimal.RequireFromString("100.00")}},
		{ProductID: 2, Quantity: 1, Product: model.Product{Name: "B", Price: decimal.RequireFromString("50.00")}},
	}
	placed := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	snapshot := NewOrderSnapshot("CAFE0001", placed, items, ContactDetails{Name: "Ivan", Email: "ivan@example.com"}, " ring me ")

	assert.Equal(t, "250.00", Money(snapshot.Total))
	assert.Equal(t, "New order #CAFE0001", snapshot.Subject())
	assert.Len(t, snapshot.Lines, 2)

	want := strings.Join([]string{
		"New order #CAFE0001",
		"Date: 2026-03-01 12:30 UTC",
		"",
		"Items:",
		"1. A × 2 — 200.00",
		"2. B × 1 — 50.00",
		"",
		"Total: 250.00",
		"",
		"Customer:",
		"Name: Ivan",
		"Phone: not provided",
		"Email: ivan@example.com",
		"Telegram: ",
		"",
		"Comment: ring me",
		"",
	}, "\n")
	assert.Equal(t, want, snapshot.Render())
}

func TestNewOrderNumber(t *testing.T) {
	a, b := NewOrderNumber(), NewOrderNumber()
	assert.Len(t, a, 8)
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, b)
}
