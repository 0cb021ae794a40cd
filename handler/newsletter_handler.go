package handler

import (
	"encoding/json"
	"net/http"
	"shop-api/common"
	"shop-api/model"
	"shop-api/service"
)

type NewsletterHandler struct {
	service *service.NewsletterService
}

func NewNewsletterHandler(service *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Description  Idempotent: subscribing an already-registered address returns 200.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        subscription body model.SubscribeRequest true "Email address"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /api/newsletter [post]
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SubscribeRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		return common.Unexpected("Could not record subscription", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "subscribed"})
	return nil
}
