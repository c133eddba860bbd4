package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "modion/internal/errors"
	"modion/internal/service"
)

// Contact and subscribe answer with bare JSON strings, which the frontend
// renders as-is.

// ContactHandler handles the contact form.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit godoc
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact message"
// @Success 200 {object} MessageResponse
// @Failure 400 {string} string "All fields are required."
// @Failure 500 {string} string "Something went wrong. Try again later."
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrContactFieldsRequired.Error())
	}

	err := h.contactService.Submit(c.Request().Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrContactFieldsRequired) {
			return c.JSON(http.StatusBadRequest, err.Error())
		}
		slog.Error("contact submission failed", "error", err)
		return c.JSON(http.StatusInternalServerError, "Something went wrong. Try again later.")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Message received and email sent."})
}

// SubscribeHandler handles newsletter subscriptions.
type SubscribeHandler struct {
	subscribeService service.SubscribeService
}

// NewSubscribeHandler creates a new subscribe handler.
func NewSubscribeHandler(subscribeService service.SubscribeService) *SubscribeHandler {
	return &SubscribeHandler{subscribeService: subscribeService}
}

// SubscribeRequest represents a subscription request.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags subscribe
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscriber email"
// @Success 201 {string} string "Subscription successful!"
// @Failure 400 {string} string "Email is required"
// @Failure 409 {string} string "You're already subscribed"
// @Failure 500 {string} string "Something went wrong"
// @Router /subscribe [post]
func (h *SubscribeHandler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrEmailRequired.Error())
	}

	if err := h.subscribeService.Subscribe(c.Request().Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmailRequired):
			return c.JSON(http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrAlreadySubscribed):
			return c.JSON(http.StatusConflict, err.Error())
		}
		slog.Error("subscription failed", "error", err)
		return c.JSON(http.StatusInternalServerError, "Something went wrong")
	}

	return c.JSON(http.StatusCreated, "Subscription successful!")
}
