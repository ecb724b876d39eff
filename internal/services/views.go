package services

import (
	"time"

	"gorm.io/gorm"

	"EstateHub/internal/models"
)

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type PostSummary struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// PaymentView is a payment with the owning user and listing reduced to summaries.
type PaymentView struct {
	ID        uint                 `json:"id"`
	Reference string               `json:"reference"`
	Amount    int64                `json:"amount"`
	Status    models.PaymentStatus `json:"status"`
	Channel   string               `json:"channel"`
	Currency  string               `json:"currency"`
	PaidAt    *time.Time           `json:"paidAt"`
	UserID    uint                 `json:"userId"`
	PostID    *uint                `json:"postId"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	User      *UserSummary         `json:"user,omitempty"`
	Post      *PostSummary         `json:"post,omitempty"`
}

func NewPaymentView(p models.Payment) PaymentView {
	v := PaymentView{
		ID:        p.ID,
		Reference: p.Reference,
		Amount:    p.Amount,
		Status:    p.Status,
		Channel:   p.Channel,
		Currency:  p.Currency,
		PaidAt:    p.PaidAt,
		UserID:    p.UserID,
		PostID:    p.PostID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.User != nil {
		v.User = &UserSummary{ID: p.User.ID, Username: p.User.Username, Email: p.User.Email}
	}
	if p.Post != nil {
		v.Post = &PostSummary{ID: p.Post.ID, Title: p.Post.Title, Price: p.Post.Price}
	}
	return v
}

func newPaymentViews(payments []models.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, NewPaymentView(p))
	}
	return views
}

// withSummaries preloads only the columns the summaries expose.
func withSummaries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "email")
		}).
		Preload("Post", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "price")
		})
}
