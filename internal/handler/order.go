package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/auth"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/order"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/shipping"
)

// Local mobile numbers: leading 0 or +84, nine digits after.
var phonePattern = regexp.MustCompile(`^(0|\+84)[1-9][0-9]{8}$`)

type CreateOrderItemRequest struct {
	ProductID    *uuid.UUID `json:"product_id"`
	ProductName  string     `json:"product_name" validate:"required"`
	ProductBrand string     `json:"product_brand"`
	Price        int64      `json:"price" validate:"required,gt=0"`
	ProductImage string     `json:"product_image"`
	Quantity     int        `json:"quantity" validate:"required,gte=1"`
}

type CreateOrderRequest struct {
	CustomerName    string                   `json:"customer_name" validate:"required,min=2"`
	CustomerPhone   string                   `json:"customer_phone" validate:"required"`
	Note            string                   `json:"note"`
	AddressStreet   string                   `json:"address_street" validate:"required"`
	AddressWard     string                   `json:"address_ward"`
	AddressDistrict string                   `json:"address_district" validate:"required"`
	AddressCity     string                   `json:"address_city" validate:"required"`
	PaymentMethod   string                   `json:"payment_method" validate:"omitempty,oneof=qr cod"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateNoteRequest struct {
	AdminNote string `json:"admin_note"`
}

// PublicOrderResponse is what customers see: no admin note, no
// confirmation actor.
type PublicOrderResponse struct {
	OrderCode       string              `json:"order_code"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	Note            string              `json:"note,omitempty"`
	AddressStreet   string              `json:"address_street"`
	AddressWard     string              `json:"address_ward,omitempty"`
	AddressDistrict string              `json:"address_district"`
	AddressCity     string              `json:"address_city"`
	TotalAmount     int64               `json:"total_amount"`
	ShippingFee     int64               `json:"shipping_fee"`
	FinalAmount     int64               `json:"final_amount"`
	PaymentMethod   order.PaymentMethod `json:"payment_method"`
	PaymentStatus   order.PaymentStatus `json:"payment_status"`
	OrderStatus     order.Status        `json:"order_status"`
	IsCOD           bool                `json:"is_cod"`
	TransferContent string              `json:"transfer_content"`
	QRCodeURL       string              `json:"qr_code_url"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []order.Item        `json:"items"`
	Bank            *bank.PublicView    `json:"bank_account,omitempty"`
	Shipping        *shipping.Quote     `json:"shipping,omitempty"`
}

func toPublicOrder(ord *order.Order) PublicOrderResponse {
	resp := PublicOrderResponse{
		OrderCode:       ord.OrderCode,
		CustomerName:    ord.CustomerName,
		CustomerPhone:   ord.CustomerPhone,
		Note:            ord.Note,
		AddressStreet:   ord.AddressStreet,
		AddressWard:     ord.AddressWard,
		AddressDistrict: ord.AddressDistrict,
		AddressCity:     ord.AddressCity,
		TotalAmount:     ord.TotalAmount,
		ShippingFee:     ord.ShippingFee,
		FinalAmount:     ord.FinalAmount,
		PaymentMethod:   ord.PaymentMethod,
		PaymentStatus:   ord.PaymentStatus,
		OrderStatus:     ord.OrderStatus,
		IsCOD:           ord.IsCOD,
		TransferContent: ord.TransferContent,
		QRCodeURL:       ord.QRCodeURL,
		CreatedAt:       ord.CreatedAt,
		Items:           ord.Items,
		Shipping:        ord.Shipping,
	}
	if ord.Bank != nil {
		public := ord.Bank.Public()
		resp.Bank = &public
	}
	return resp
}

type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

// CreateOrder handles the customer checkout. Validation happens entirely
// before the service is called; nothing touches the database for a
// malformed request.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	if !phonePattern.MatchString(req.CustomerPhone) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"CustomerPhone": "must be a valid local mobile number"},
		})
		return
	}

	items := make([]order.CreateItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.CreateItemInput{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductBrand: it.ProductBrand,
			Price:        it.Price,
			ProductImage: it.ProductImage,
			Quantity:     it.Quantity,
		})
	}

	ord, err := h.svc.Create(r.Context(), order.CreateInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Note:            req.Note,
		AddressStreet:   req.AddressStreet,
		AddressWard:     req.AddressWard,
		AddressDistrict: req.AddressDistrict,
		AddressCity:     req.AddressCity,
		PaymentMethod:   req.PaymentMethod,
		Items:           items,
	})
	if err != nil {
		code := mapErrorToStatusCode(err)
		switch code {
		case http.StatusServiceUnavailable:
			// Operational misconfiguration, not a customer problem.
			respondWithError(w, code, "Ordering is temporarily unavailable, please try again later")
		case http.StatusBadRequest:
			respondWithError(w, code, err.Error())
		default:
			log.Error().Err(err).Msg("Order creation failed")
			respondWithError(w, code, "Could not create order, please try again")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, toPublicOrder(ord))
}

// TrackOrder is the public lookup: both order code and phone are
// required, and any mismatch looks identical to an unknown code.
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	phone := r.URL.Query().Get("phone")
	if code == "" || phone == "" {
		respondWithError(w, http.StatusBadRequest, "code and phone are required")
		return
	}

	ord, err := h.svc.Track(r.Context(), code, phone)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Msg("Order lookup failed")
		respondWithError(w, http.StatusInternalServerError, "failed to look up order")
		return
	}

	respondWithJSON(w, http.StatusOK, toPublicOrder(ord))
}

// GetOrder is the admin view: full order including admin note,
// confirmation actor, and the payment record.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	ord, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("Failed to get order")
		respondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, ord)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.ConfirmPayment(r.Context(), id, actorID); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("Failed to confirm payment")
		respondWithError(w, http.StatusInternalServerError, "failed to confirm payment")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"payment_status": string(order.PaymentConfirmed)})
}

func (h *OrderHandler) UpdateAdminNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.UpdateAdminNote(r.Context(), id, req.AdminNote); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("Failed to update admin note")
		respondWithError(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) orderIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return uuid.Nil, false
	}
	id, err := uuid.FromString(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
