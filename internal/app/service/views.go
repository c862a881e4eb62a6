package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/model"
)

// Money renders amounts the way every response does: two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type ProductView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        string  `json:"price"`
	Stock        int     `json:"stock"`
	Category     string  `json:"category"`
	Manufacturer *string `json:"manufacturer"`
	ImageURL     string  `json:"image_url"`
}

func NewProductView(p *model.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		Stock:       p.Stock,
		Category:    p.Category,
	}
	if p.Manufacturer != nil {
		name := p.Manufacturer.Name
		view.Manufacturer = &name
	}
	if len(p.Images) > 0 {
		view.ImageURL = p.Images[0].URL
	}
	return view
}

type CartItemView struct {
	ID         uint        `json:"id"`
	Product    ProductView `json:"product"`
	Quantity   int         `json:"quantity"`
	TotalPrice string      `json:"total_price"`
}

type CartView struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user"`
	Items      []CartItemView `json:"items"`
	TotalPrice string         `json:"total_price"`
}

func NewCartView(cart *model.Cart) *CartView {
	view := &CartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      make([]CartItemView, 0, len(cart.Items)),
		TotalPrice: Money(ComputeTotal(cart.Items)),
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		view.Items = append(view.Items, CartItemView{
			ID:         item.ID,
			Product:    NewProductView(&item.Product),
			Quantity:   item.Quantity,
			TotalPrice: Money(item.LineTotal()),
		})
	}
	return view
}

// ComputeTotal sums current price × quantity over all lines.
func ComputeTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

type ReviewAuthorView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ReviewView struct {
	ID          uint             `json:"id"`
	User        ReviewAuthorView `json:"user"`
	Product     ProductView      `json:"product"`
	Text        string           `json:"text"`
	Rating      int              `json:"rating"`
	State       string           `json:"state"`
	IsApproved  bool             `json:"is_approved"`
	CreatedAt   time.Time        `json:"created_at"`
	ModeratorID *uint            `json:"moderator_id,omitempty"`
	ModeratedAt *time.Time       `json:"moderated_at,omitempty"`
}

func NewReviewView(r *model.Review) ReviewView {
	return ReviewView{
		ID: r.ID,
		User: ReviewAuthorView{
			ID:        r.UserID,
			Username:  r.User.Username,
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
		},
		Product:     NewProductView(&r.Product),
		Text:        r.Text,
		Rating:      r.Rating,
		State:       string(r.State()),
		IsApproved:  r.IsApproved,
		CreatedAt:   r.CreatedAt,
		ModeratorID: r.ModeratorID,
		ModeratedAt: r.ModeratedAt,
	}
}

func NewReviewViews(reviews []model.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, NewReviewView(&reviews[i]))
	}
	return views
}

type UserView struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Telegram    string `json:"telegram"`
	IsModerator bool   `json:"is_moderator"`
}

func NewUserView(u *model.User) UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Telegram:    u.Telegram,
		IsModerator: u.IsModerator,
	}
}
