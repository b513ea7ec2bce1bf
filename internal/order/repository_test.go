package order_test

// Integration tests for the Postgres repository. They need a migrated
// database and are skipped unless TEST_DB_DSN is set, e.g.:
//
//	TEST_DB_DSN="host=localhost port=5432 user=postgres password=123456 dbname=clubshop_test sslmode=disable" go test ./internal/order/

import (
	"context"
	"os"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/order"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping repository integration tests")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func seedBankAccount(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `DELETE FROM payments`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM order_items`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM orders`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM bank_accounts`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO bank_accounts (id, bank_name, bank_code, account_number, account_holder, is_primary, is_active)
		VALUES ($1, 'Vietcombank', 'VCB', '0123456789', 'CLB', TRUE, TRUE)
	`, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
}

func draftOrder(isCOD bool) *order.Order {
	code := order.GenerateOrderCode()
	method := order.MethodQR
	payStatus := order.PaymentPending
	if isCOD {
		method = order.MethodCOD
		payStatus = order.PaymentUnpaid
	}
	return &order.Order{
		OrderCode:       code,
		CustomerName:    "Nguyễn Văn A",
		CustomerPhone:   "0912345678",
		AddressStreet:   "12 Lê Lợi",
		AddressDistrict: "Quận 1",
		AddressCity:     "TP. Hồ Chí Minh",
		TotalAmount:     200_000,
		ShippingFee:     30_000,
		FinalAmount:     230_000,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
		OrderStatus:     order.StatusNew,
		IsCOD:           isCOD,
		TransferContent: order.TransferContent(code),
		Items: []order.Item{
			{ProductName: "Jersey", ProductBrand: "Nike", Price: 200_000, Quantity: 1, Subtotal: 200_000},
		},
	}
}

func TestRepository_Create_QROrderHasPaymentRow(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	ord := draftOrder(false)
	require.NoError(t, repo.Create(ctx, ord))

	require.NotNil(t, ord.Bank)
	assert.Equal(t, "VCB", ord.Bank.BankCode)
	assert.Contains(t, ord.QRCodeURL, "amount=230000")
	require.NotNil(t, ord.Payment)
	assert.Equal(t, ord.FinalAmount, ord.Payment.Amount)

	var paymentCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM payments WHERE order_id = $1`, ord.ID).Scan(&paymentCount))
	assert.Equal(t, 1, paymentCount)
}

func TestRepository_Create_CODOrderHasNoPaymentRow(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	ord := draftOrder(true)
	require.NoError(t, repo.Create(ctx, ord))

	// QR URL is still attached as a fallback payment path.
	assert.NotEmpty(t, ord.QRCodeURL)
	assert.Nil(t, ord.Payment)

	var paymentCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM payments WHERE order_id = $1`, ord.ID).Scan(&paymentCount))
	assert.Equal(t, 0, paymentCount)
}

func TestRepository_Create_NoBankAccountPersistsNothing(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `UPDATE bank_accounts SET is_active = FALSE`)
	require.NoError(t, err)

	repo := order.NewRepository(pool)
	ord := draftOrder(false)
	err = repo.Create(ctx, ord)
	assert.ErrorIs(t, err, bank.ErrNoPrimaryAccount)

	var orderCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE order_code = $1`, ord.OrderCode).Scan(&orderCount))
	assert.Equal(t, 0, orderCount)
}

func TestRepository_Create_DuplicateCodeRollsBackEverything(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	first := draftOrder(false)
	require.NoError(t, repo.Create(ctx, first))

	second := draftOrder(false)
	second.OrderCode = first.OrderCode
	second.TransferContent = first.TransferContent

	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, order.ErrDuplicateOrderCode)

	// Only the first order's rows survive: no partial items, no orphan
	// payment from the failed attempt.
	var orderCount, itemCount, paymentCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE order_code = $1`, first.OrderCode).Scan(&orderCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM order_items`).Scan(&itemCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM payments`).Scan(&paymentCount))
	assert.Equal(t, 1, orderCount)
	assert.Equal(t, 1, itemCount)
	assert.Equal(t, 1, paymentCount)
}

func TestRepository_GetByCodeAndPhone(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	ord := draftOrder(false)
	require.NoError(t, repo.Create(ctx, ord))

	found, err := repo.GetByCodeAndPhone(ctx, ord.OrderCode, ord.CustomerPhone)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, found.ID)
	require.Len(t, found.Items, 1)

	// Correct code, wrong phone: indistinguishable from an unknown code.
	_, err = repo.GetByCodeAndPhone(ctx, ord.OrderCode, "0999999999")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = repo.GetByCodeAndPhone(ctx, "20000101XXXX", ord.CustomerPhone)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_ConfirmPayment(t *testing.T) {
	pool := testPool(t)
	seedBankAccount(t, pool)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	ord := draftOrder(false)
	require.NoError(t, repo.Create(ctx, ord))

	actorID := uuid.Must(uuid.NewV4())
	require.NoError(t, repo.ConfirmPayment(ctx, ord.ID, actorID))

	confirmed, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentConfirmed, confirmed.PaymentStatus)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, actorID, *confirmed.ConfirmedBy)
	require.NotNil(t, confirmed.Payment)
	assert.Equal(t, "verified", confirmed.Payment.Status)
	require.NotNil(t, confirmed.Payment.VerifiedBy)
	assert.Equal(t, actorID, *confirmed.Payment.VerifiedBy)
}
