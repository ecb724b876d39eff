package handlers

import (
	"github.com/gofiber/fiber/v2"

	"EstateHub/internal/middleware"
	"EstateHub/internal/models"
	"EstateHub/internal/services"
)

type InitializePaymentRequest struct {
	Email  string  `json:"email" validate:"required,email"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	PostID *uint   `json:"postId"`
}

type UpdateStatusRequest struct {
	Status models.PaymentStatus `json:"status"`
}

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// InitializePayment opens a Paystack checkout for the authenticated user
func (h *PaymentHandler) InitializePayment(c *fiber.Ctx) error {
	req := new(InitializePaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not Authenticated!",
		})
	}

	url, err := h.payments.Initialize(c.UserContext(), services.InitializeInput{
		Email:  req.Email,
		Amount: req.Amount,
		PostID: req.PostID,
		UserID: userID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"authorization_url": url,
	})
}

// VerifyPayment confirms ?reference= with Paystack and records the payment
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	result, err := h.payments.Verify(c.UserContext(), c.Query("reference"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// GetPayments lists payments, optionally filtered by ?userId=&postId=&status=
func (h *PaymentHandler) GetPayments(c *fiber.Ctx) error {
	var filter services.PaymentFilter

	userID, ok := optionalID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid userId")
	}
	postID, ok := optionalID(c, "postId")
	if !ok {
		return badRequest(c, "Invalid postId")
	}
	filter.UserID = userID
	filter.PostID = postID

	if raw := c.Query("status"); raw != "" {
		status := models.PaymentStatus(raw)
		if !status.Valid() {
			return serviceError(c, services.ErrInvalidStatus)
		}
		filter.Status = &status
	}

	payments, err := h.payments.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(payments)
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment ID")
	}

	payment, err := h.payments.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(payment)
}

// UpdatePaymentStatus overwrites a payment's status with one of
// pending, success or failed
func (h *PaymentHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment ID")
	}

	req := new(UpdateStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	payment, err := h.payments.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(payment)
}
