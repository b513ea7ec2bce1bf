package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrderCode = errors.New("order code already exists")
)

type Repository interface {
	Create(ctx context.Context, ord *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByCodeAndPhone(ctx context.Context, code, phone string) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) error
	UpdateAdminNote(ctx context.Context, id uuid.UUID, note string) error
	ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Create persists an order, its items, and (for non-COD orders) its
// payment record in one transaction. The primary bank account is resolved
// inside the same transaction; its absence aborts the whole operation
// with bank.ErrNoPrimaryAccount and nothing is persisted. On success ord
// is filled in place: generated IDs, QR URL, bank snapshot, timestamps.
func (r *postgresRepository) Create(ctx context.Context, ord *Order) (err error) {
	orderID, genErr := uuid.NewV4()
	if genErr != nil {
		return fmt.Errorf("repository: failed to generate order ID: %w", genErr)
	}
	ord.ID = orderID

	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_code", ord.OrderCode).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Str("order_code", ord.OrderCode).Msg("Order creation failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_code", ord.OrderCode).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Str("order_code", ord.OrderCode).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	// 1. Resolve the receiving account. Read-only config row; absence is
	// fatal for the whole checkout.
	acct, err := bank.QueryPrimary(ctx, tx)
	if err != nil {
		return err
	}
	ord.Bank = acct

	// 2. The QR URL is attached even for COD orders, as a fallback
	// payment path.
	ord.QRCodeURL = BuildQRURL(acct.BankCode, acct.AccountNumber, ord.FinalAmount, ord.TransferContent, acct.AccountHolder)

	ord.CreatedAt = time.Now().UTC()

	// 3. Order header.
	queryOrder := `
		INSERT INTO orders (
			id, order_code, customer_name, customer_phone, note,
			address_street, address_ward, address_district, address_city,
			total_amount, shipping_fee, final_amount,
			payment_method, payment_status, order_status, is_cod,
			transfer_content, qr_code_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, queryOrder,
		ord.ID,
		ord.OrderCode,
		ord.CustomerName,
		ord.CustomerPhone,
		ord.Note,
		ord.AddressStreet,
		ord.AddressWard,
		ord.AddressDistrict,
		ord.AddressCity,
		ord.TotalAmount,
		ord.ShippingFee,
		ord.FinalAmount,
		string(ord.PaymentMethod),
		string(ord.PaymentStatus),
		string(ord.OrderStatus),
		ord.IsCOD,
		ord.TransferContent,
		ord.QRCodeURL,
		ord.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("repository: %w: %s", ErrDuplicateOrderCode, ord.OrderCode)
		}
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	// 4. Line items, in input order.
	queryItem := `
		INSERT INTO order_items (
			id, order_id, product_id, product_name, product_brand,
			price, product_image, quantity, subtotal, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i := range ord.Items {
		item := &ord.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			err = fmt.Errorf("repository: failed to generate order item ID: %w", genErr)
			return err
		}
		item.ID = itemID
		item.OrderID = ord.ID
		item.CreatedAt = ord.CreatedAt

		_, err = tx.Exec(ctx, queryItem,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.ProductBrand,
			item.Price,
			item.ProductImage,
			item.Quantity,
			item.Subtotal,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", ord.OrderCode, err)
		}
	}

	// 5. One pending payment row for non-COD orders; COD orders get none.
	if !ord.IsCOD {
		paymentID, genErr := uuid.NewV4()
		if genErr != nil {
			err = fmt.Errorf("repository: failed to generate payment ID: %w", genErr)
			return err
		}

		payment := &Payment{
			ID:              paymentID,
			OrderID:         ord.ID,
			BankName:        acct.BankName,
			BankCode:        acct.BankCode,
			AccountNumber:   acct.AccountNumber,
			AccountHolder:   acct.AccountHolder,
			Amount:          ord.FinalAmount,
			TransferContent: ord.TransferContent,
			Status:          paymentRowPending,
			CreatedAt:       ord.CreatedAt,
		}

		queryPayment := `
			INSERT INTO payments (
				id, order_id, bank_name, bank_code, account_number, account_holder,
				amount, transfer_content, status, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err = tx.Exec(ctx, queryPayment,
			payment.ID,
			payment.OrderID,
			payment.BankName,
			payment.BankCode,
			payment.AccountNumber,
			payment.AccountHolder,
			payment.Amount,
			payment.TransferContent,
			payment.Status,
			payment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert payment for order %s: %w", ord.OrderCode, err)
		}

		ord.Payment = payment
	}

	return nil
}

const orderColumns = `
	id, order_code, customer_name, customer_phone, note,
	address_street, address_ward, address_district, address_city,
	total_amount, shipping_fee, final_amount,
	payment_method, payment_status, order_status, is_cod,
	transfer_content, qr_code_url, admin_note, confirmed_by, confirmed_at, created_at
`

func scanOrder(row pgx.Row) (*Order, error) {
	var ord Order
	err := row.Scan(
		&ord.ID,
		&ord.OrderCode,
		&ord.CustomerName,
		&ord.CustomerPhone,
		&ord.Note,
		&ord.AddressStreet,
		&ord.AddressWard,
		&ord.AddressDistrict,
		&ord.AddressCity,
		&ord.TotalAmount,
		&ord.ShippingFee,
		&ord.FinalAmount,
		&ord.PaymentMethod,
		&ord.PaymentStatus,
		&ord.OrderStatus,
		&ord.IsCOD,
		&ord.TransferContent,
		&ord.QRCodeURL,
		&ord.AdminNote,
		&ord.ConfirmedBy,
		&ord.ConfirmedAt,
		&ord.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	ord, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	if err := r.loadItems(ctx, ord); err != nil {
		return nil, err
	}
	if err := r.loadPayment(ctx, ord); err != nil {
		return nil, err
	}

	return ord, nil
}

// GetByCodeAndPhone is the public lookup path. The phone acts as a shared
// secret: a code match with a phone mismatch returns ErrOrderNotFound,
// indistinguishable from an unknown code, so order existence is never
// leaked.
func (r *postgresRepository) GetByCodeAndPhone(ctx context.Context, code, phone string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE upper(order_code) = $1 AND customer_phone = $2`

	ord, err := scanOrder(r.db.QueryRow(ctx, query, code, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by code: %w", err)
	}

	if err := r.loadItems(ctx, ord); err != nil {
		return nil, err
	}

	return ord, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, ord *Order) error {
	query := `
		SELECT id, order_id, product_id, product_name, product_brand,
		       price, product_image, quantity, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, ord.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to query items for order %s: %w", ord.ID, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductBrand,
			&item.Price,
			&item.ProductImage,
			&item.Quantity,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to scan item for order %s: %w", ord.ID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating items for order %s: %w", ord.ID, err)
	}

	ord.Items = items
	return nil
}

func (r *postgresRepository) loadPayment(ctx context.Context, ord *Order) error {
	query := `
		SELECT id, order_id, bank_name, bank_code, account_number, account_holder,
		       amount, transfer_content, status, verified_by, verified_at, created_at
		FROM payments
		WHERE order_id = $1
	`

	var p Payment
	err := r.db.QueryRow(ctx, query, ord.ID).Scan(
		&p.ID,
		&p.OrderID,
		&p.BankName,
		&p.BankCode,
		&p.AccountNumber,
		&p.AccountHolder,
		&p.Amount,
		&p.TransferContent,
		&p.Status,
		&p.VerifiedBy,
		&p.VerifiedAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// COD orders have no payment row.
			return nil
		}
		return fmt.Errorf("repository: failed to select payment for order %s: %w", ord.ID, err)
	}

	ord.Payment = &p
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) error {
	query := `UPDATE orders SET order_status = $1 WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, string(newStatus), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status for %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateAdminNote(ctx context.Context, id uuid.UUID, note string) error {
	query := `UPDATE orders SET admin_note = $1 WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, note, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update admin note for %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// ConfirmPayment marks the order's payment as confirmed and the payment
// row as verified in one transaction, so a crash between the two updates
// can never leave them disagreeing. COD orders have no payment row; zero
// rows affected on payments is fine.
func (r *postgresRepository) ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", id).Msg("Failed to rollback payment confirmation")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit payment confirmation: %w", commitErr)
			}
		}
	}()

	now := time.Now().UTC()

	queryOrder := `
		UPDATE orders
		SET payment_status = $1, confirmed_by = $2, confirmed_at = $3
		WHERE id = $4
	`
	cmdTag, err := tx.Exec(ctx, queryOrder, string(PaymentConfirmed), actorID, now, id)
	if err != nil {
		return fmt.Errorf("repository: failed to confirm payment for order %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = ErrOrderNotFound
		return err
	}

	queryPayment := `
		UPDATE payments
		SET status = $1, verified_by = $2, verified_at = $3
		WHERE order_id = $4
	`
	_, err = tx.Exec(ctx, queryPayment, paymentRowVerified, actorID, now, id)
	if err != nil {
		return fmt.Errorf("repository: failed to verify payment row for order %s: %w", id, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
