package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/shipping"
)

// ErrInvalidOrder marks input rejections that happen before any database
// work. Handlers map it to a 400.
var ErrInvalidOrder = errors.New("invalid order input")

// CreateItemInput is one requested line item. Price and name come from
// the checkout form and are snapshotted as-is; positivity is validated
// here and at the HTTP boundary.
type CreateItemInput struct {
	ProductID    *uuid.UUID
	ProductName  string
	ProductBrand string
	Price        int64
	ProductImage string
	Quantity     int
}

type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	Note            string
	AddressStreet   string
	AddressWard     string
	AddressDistrict string
	AddressCity     string
	PaymentMethod   string // "qr" (default) or "cod"
	Items           []CreateItemInput
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Track(ctx context.Context, code, phone string) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) error
	UpdateAdminNote(ctx context.Context, id uuid.UUID, note string) error
	ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create runs the checkout policy and hands the assembled order to the
// repository for atomic persistence.
//
// COD is an intent, not a guarantee: if the address is outside the COD
// area the order silently falls back to QR payment. The caller sees the
// resolved method in the result, never an error.
func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}

	var subtotal int64
	items := make([]Item, 0, len(input.Items))
	for i, in := range input.Items {
		if strings.TrimSpace(in.ProductName) == "" {
			return nil, fmt.Errorf("%w: item %d is missing a product name", ErrInvalidOrder, i)
		}
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidOrder, i)
		}
		if in.Price <= 0 {
			return nil, fmt.Errorf("%w: item %d price must be positive", ErrInvalidOrder, i)
		}

		lineTotal := in.Price * int64(in.Quantity)
		subtotal += lineTotal

		items = append(items, Item{
			ProductID:    in.ProductID,
			ProductName:  in.ProductName,
			ProductBrand: in.ProductBrand,
			Price:        in.Price,
			ProductImage: in.ProductImage,
			Quantity:     in.Quantity,
			Subtotal:     lineTotal,
		})
	}

	quote := shipping.Compute(subtotal, input.AddressDistrict, input.AddressCity)

	wantCOD := input.PaymentMethod == string(MethodCOD)
	isCOD := wantCOD && shipping.CODAvailable(input.AddressDistrict, input.AddressCity)
	if wantCOD && !isCOD {
		log.Info().
			Str("district", input.AddressDistrict).
			Str("city", input.AddressCity).
			Msg("COD requested but not available for address, falling back to QR")
	}

	method := MethodQR
	payStatus := PaymentPending
	if isCOD {
		method = MethodCOD
		payStatus = PaymentUnpaid
	}

	code := GenerateOrderCode()

	ord := &Order{
		OrderCode:       code,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		Note:            input.Note,
		AddressStreet:   input.AddressStreet,
		AddressWard:     input.AddressWard,
		AddressDistrict: input.AddressDistrict,
		AddressCity:     input.AddressCity,
		TotalAmount:     subtotal,
		ShippingFee:     quote.Fee,
		FinalAmount:     subtotal + quote.Fee,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
		OrderStatus:     StatusNew,
		IsCOD:           isCOD,
		TransferContent: TransferContent(code),
		Items:           items,
	}

	if err := s.repo.Create(ctx, ord); err != nil {
		log.Error().Err(err).Str("order_code", code).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}
	ord.Shipping = &quote

	log.Info().
		Str("order_code", ord.OrderCode).
		Int64("final_amount", ord.FinalAmount).
		Str("payment_method", string(ord.PaymentMethod)).
		Bool("is_cod", ord.IsCOD).
		Msg("Order created")

	return ord, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return ord, nil
}

// Track is the public lookup: order code plus customer phone. The code
// may be pasted as the bare code or the full transfer reference; the
// phone is compared with whitespace stripped.
func (s *service) Track(ctx context.Context, code, phone string) (*Order, error) {
	normCode := NormalizeCode(code)
	normPhone := stripSpaces(phone)
	if normCode == "" || normPhone == "" {
		return nil, ErrOrderNotFound
	}

	ord, err := s.repo.GetByCodeAndPhone(ctx, normCode, normPhone)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to look up order: %w", err)
	}
	return ord, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) error {
	status := Status(newStatus)
	if !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrInvalidOrder, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", id).Str("new_status", newStatus).Msg("Order status updated")
	return nil
}

func (s *service) UpdateAdminNote(ctx context.Context, id uuid.UUID, note string) error {
	if err := s.repo.UpdateAdminNote(ctx, id, note); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to update admin note: %w", err)
	}
	return nil
}

func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := s.repo.ConfirmPayment(ctx, id, actorID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to confirm payment: %w", err)
	}

	log.Info().Stringer("order_id", id).Stringer("actor_id", actorID).Msg("Payment confirmed")
	return nil
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
