package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/resend/resend-go/v2"

	"EstateHub/internal/models"
)

type EmailService struct {
	Client *resend.Client
	From   string
}

// NewEmailService returns nil when apiKey is empty so callers can treat
// receipts as disabled.
func NewEmailService(apiKey, fromEmail string) *EmailService {
	if apiKey == "" {
		log.Printf("⚠️  RESEND_API_KEY is empty, payment receipts disabled")
		return nil
	}
	if fromEmail == "" {
		fromEmail = "onboarding@resend.dev" // Resend's default test email
	}

	log.Printf("📧 Email Service Initialized (Resend)")
	log.Printf("   - From Email: %s", fromEmail)

	return &EmailService{
		Client: resend.NewClient(apiKey),
		From:   fromEmail,
	}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .amount-box { background-color: #f4f4f4; border: 2px dashed #28a745; padding: 20px; text-align: center; margin: 20px 0; border-radius: 5px; }
        .amount { font-size: 32px; font-weight: bold; color: #28a745; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Payment received</h2>
        <p>Thank you. Your payment has been confirmed.</p>
        <div class="amount-box">
            <div class="amount">{{.Currency}} {{.Amount}}</div>
        </div>
        <p>Reference: <strong>{{.Reference}}</strong></p>
        {{if .Channel}}<p>Channel: {{.Channel}}</p>{{end}}
        <div class="footer">
            <p>This is an automated message, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`))

// RenderReceipt builds the HTML body for a payment receipt.
func RenderReceipt(p *models.Payment) (string, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, struct {
		Currency  string
		Amount    string
		Reference string
		Channel   string
	}{
		Currency:  p.Currency,
		Amount:    fmt.Sprintf("%.2f", ToMajorUnits(p.Amount)),
		Reference: p.Reference,
		Channel:   p.Channel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}

// SendPaymentReceipt emails a receipt for a verified payment
func (es *EmailService) SendPaymentReceipt(ctx context.Context, to string, p *models.Payment) error {
	htmlBody, err := RenderReceipt(p)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    es.From,
		To:      []string{to},
		Subject: "Payment receipt - " + p.Reference,
		Html:    htmlBody,
	}

	sent, err := es.Client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("✅ Receipt sent to: %s (ID: %s)", to, sent.Id)
	return nil
}
