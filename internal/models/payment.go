package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Valid reports whether s is one of the statuses a payment may hold.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return true
	}
	return false
}

// Payment is a verified gateway transaction. Amount is in minor units
// (kobo) exactly as reported by the gateway.
type Payment struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	Reference string        `gorm:"uniqueIndex;not null" json:"reference"`
	Amount    int64         `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Channel   string        `gorm:"type:varchar(50)" json:"channel"`
	Currency  string        `gorm:"type:varchar(10)" json:"currency"`
	PaidAt    *time.Time    `json:"paidAt"`
	UserID    uint          `gorm:"not null;index" json:"userId"`
	PostID    *uint         `gorm:"index" json:"postId"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
