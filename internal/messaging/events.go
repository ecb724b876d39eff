package messaging

import "time"

const PaymentVerifiedKey = "payment.verified"

type PaymentVerified struct {
	Reference string     `json:"reference"`
	UserID    uint       `json:"userId"`
	PostID    *uint      `json:"postId,omitempty"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}
