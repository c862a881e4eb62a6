package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/model"
)

const phoneNotProvided = "not provided"

// ContactOverrides are the optional contact fields sent with a checkout.
// Empty strings mean "use the profile value".
type ContactOverrides struct {
	Name     string
	Phone    string
	Email    string
	Telegram string
	Comment  string
}

type ContactDetails struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
}

// ResolveContact picks each field from the override, then the profile, then "".
func ResolveContact(user *model.User, overrides ContactOverrides) ContactDetails {
	return ContactDetails{
		Name:     firstNonEmpty(overrides.Name, user.DisplayName()),
		Phone:    firstNonEmpty(overrides.Phone, user.Phone),
		Email:    firstNonEmpty(overrides.Email, user.Email),
		Telegram: firstNonEmpty(overrides.Telegram, user.Telegram),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type OrderLine struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// OrderSnapshot is the immutable record of a checkout that every channel
// receives in the same rendered form.
type OrderSnapshot struct {
	Number   string
	PlacedAt time.Time
	Lines    []OrderLine
	Total    decimal.Decimal
	Contact  ContactDetails
	Comment  string
}

func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func NewOrderSnapshot(number string, placedAt time.Time, items []model.CartItem, contact ContactDetails, comment string) *OrderSnapshot {
	snapshot := &OrderSnapshot{
		Number:   number,
		PlacedAt: placedAt,
		Lines:    make([]OrderLine, 0, len(items)),
		Total:    ComputeTotal(items),
		Contact:  contact,
		Comment:  strings.TrimSpace(comment),
	}
	for i := range items {
		item := &items[i]
		snapshot.Lines = append(snapshot.Lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
			LineTotal: item.LineTotal(),
		})
	}
	return snapshot
}

func (s *OrderSnapshot) Subject() string {
	return fmt.Sprintf("New order #%s", s.Number)
}

// Render produces the plain-text body shared by all channels.
func (s *OrderSnapshot) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order #%s\n", s.Number)
	fmt.Fprintf(&b, "Date: %s\n\n", s.PlacedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("Items:\n")
	for i, line := range s.Lines {
		fmt.Fprintf(&b, "%d. %s × %d — %s\n", i+1, line.Name, line.Quantity, Money(line.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", Money(s.Total))

	phone := s.Contact.Phone
	if phone == "" {
		phone = phoneNotProvided
	}
	b.WriteString("Customer:\n")
	fmt.Fprintf(&b, "Name: %s\n", s.Contact.Name)
	fmt.Fprintf(&b, "Phone: %s\n", phone)
	fmt.Fprintf(&b, "Email: %s\n", s.Contact.Email)
	fmt.Fprintf(&b, "Telegram: %s\n", s.Contact.Telegram)

	if s.Comment != "" {
		fmt.Fprintf(&b, "\nComment: %s\n", s.Comment)
	}
	return b.String()
}
