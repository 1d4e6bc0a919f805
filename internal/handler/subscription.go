package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/service"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, email string) error
}

// SubscriptionHandler handles the mailing-list form.
type SubscriptionHandler struct {
	service SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// HandleSubscribe handles POST /api/subscribe requests.
func (h *SubscriptionHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req model.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse("Email is required"))
		return
	}

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("Email is required"))
		case errors.Is(err, service.ErrAlreadySubscribed):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("Email already subscribed"))
		default:
			serverError(w, r, "subscribing", err)
		}
		return
	}

	writeJSON(w, r, http.StatusOK, model.MessageResponse{Message: "Subscribed successfully"})
}
