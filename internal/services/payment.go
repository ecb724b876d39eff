package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"EstateHub/internal/messaging"
	"EstateHub/internal/models"
)

// Gateway is the part of the Paystack API the payment flow needs.
type Gateway interface {
	InitializeTransaction(ctx context.Context, in InitializeTransactionRequest) (*InitializePaymentResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyPaymentResponse, error)
}

type ReceiptSender interface {
	SendPaymentReceipt(ctx context.Context, to string, p *models.Payment) error
}

type PaymentService struct {
	db          *gorm.DB
	gateway     Gateway
	callbackURL string
	receipts    ReceiptSender
	events      messaging.Publisher
}

type PaymentOption func(*PaymentService)

func WithReceipts(r ReceiptSender) PaymentOption {
	return func(s *PaymentService) { s.receipts = r }
}

func WithEvents(p messaging.Publisher) PaymentOption {
	return func(s *PaymentService) { s.events = p }
}

func NewPaymentService(db *gorm.DB, gateway Gateway, callbackURL string, opts ...PaymentOption) *PaymentService {
	s := &PaymentService{
		db:          db,
		gateway:     gateway,
		callbackURL: callbackURL,
		events:      messaging.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type InitializeInput struct {
	Email  string
	Amount float64 // major units
	PostID *uint
	UserID uint
}

// Initialize opens a Paystack checkout and returns its authorization URL.
// Nothing is stored until the transaction is verified.
func (s *PaymentService) Initialize(ctx context.Context, in InitializeInput) (string, error) {
	resp, err := s.gateway.InitializeTransaction(ctx, InitializeTransactionRequest{
		Email:       in.Email,
		Amount:      ToMinorUnits(in.Amount),
		CallbackURL: s.callbackURL,
		Metadata: TransactionMetadata{
			UserID: in.UserID,
			PostID: in.PostID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("initialize payment: %w", err)
	}
	return resp.Data.AuthorizationURL, nil
}

type VerifyResult struct {
	Message string  `json:"message"`
	Status  string  `json:"status"`
	Amount  float64 `json:"amount"`
	Email   string  `json:"email"`

	Payment *models.Payment `json:"-"`
}

// Verify confirms a transaction with Paystack and records it. Verifying the
// same reference again refreshes the stored record from the gateway without
// repeating the receipt or the payment.verified event.
func (s *PaymentService) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrMissingReference
	}

	resp, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	data := resp.Data

	meta, err := ParseMetadata(data.Metadata)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", reference, err)
	}
	if meta.UserID == 0 {
		return nil, fmt.Errorf("verify payment %s: %w", reference, ErrMissingUser)
	}

	paidAt, err := parsePaidAt(data.PaidAt)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", reference, err)
	}

	if data.Reference != "" {
		reference = data.Reference
	}

	payment := models.Payment{
		Reference: reference,
		Amount:    data.Amount,
		Status:    NormalizeGatewayStatus(data.Status),
		Channel:   data.Channel,
		Currency:  data.Currency,
		PaidAt:    paidAt,
		UserID:    meta.UserID,
		PostID:    meta.PostID,
	}

	var becameSuccessful bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous models.Payment
		err := tx.Select("status").Where("reference = ?", reference).Take(&previous).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "channel", "currency", "paid_at", "user_id", "post_id", "updated_at"}),
		}).Create(&payment).Error
		if err != nil {
			return err
		}

		becameSuccessful = payment.Status == models.PaymentSuccess && previous.Status != models.PaymentSuccess
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save payment %s: %w", reference, err)
	}

	// Receipt and event go out once, when the payment first turns successful.
	if becameSuccessful {
		s.announce(ctx, &payment, data.Customer.Email)
	}

	return &VerifyResult{
		Message: "Payment verified",
		Status:  data.Status,
		Amount:  ToMajorUnits(data.Amount),
		Email:   data.Customer.Email,
		Payment: &payment,
	}, nil
}

// announce sends the receipt and the payment.verified event. Failures are
// logged; the payment is already recorded.
func (s *PaymentService) announce(ctx context.Context, p *models.Payment, email string) {
	if s.receipts != nil && email != "" {
		if err := s.receipts.SendPaymentReceipt(ctx, email, p); err != nil {
			log.Printf("⚠️  Failed to send receipt for %s: %v", p.Reference, err)
		}
	}

	event := messaging.PaymentVerified{
		Reference: p.Reference,
		UserID:    p.UserID,
		PostID:    p.PostID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    string(p.Status),
		PaidAt:    p.PaidAt,
	}
	if err := messaging.PublishJSON(ctx, s.events, messaging.PaymentVerifiedKey, event); err != nil {
		log.Printf("⚠️  Failed to publish %s for %s: %v", messaging.PaymentVerifiedKey, p.Reference, err)
	}
}

// NormalizeGatewayStatus folds Paystack's transaction states onto the
// three statuses a payment record may hold.
func NormalizeGatewayStatus(status string) models.PaymentStatus {
	switch strings.ToLower(status) {
	case "success":
		return models.PaymentSuccess
	case "failed", "reversed":
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}

func parsePaidAt(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid paid_at %q: %w", *raw, err)
	}
	return &t, nil
}

// PaymentFilter narrows List. Nil fields are ignored.
type PaymentFilter struct {
	UserID *uint
	PostID *uint
	Status *models.PaymentStatus
}

func (s *PaymentService) List(ctx context.Context, f PaymentFilter) ([]PaymentView, error) {
	query := s.db.WithContext(ctx).Model(&models.Payment{})

	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.PostID != nil {
		query = query.Where("post_id = ?", *f.PostID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}

	var payments []models.Payment
	if err := withSummaries(query).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return newPaymentViews(payments), nil
}

func (s *PaymentService) Get(ctx context.Context, id uint) (*PaymentView, error) {
	var payment models.Payment
	if err := withSummaries(s.db.WithContext(ctx)).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}

	view := NewPaymentView(payment)
	return &view, nil
}

// UpdateStatus overwrites the status of a payment. Any valid status may
// replace any other.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uint, status models.PaymentStatus) (*PaymentView, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	db := s.db.WithContext(ctx)

	var payment models.Payment
	if err := db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}

	if err := db.Model(&payment).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment %d: %w", id, err)
	}
	payment.Status = status

	view := NewPaymentView(payment)
	return &view, nil
}
