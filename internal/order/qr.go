package order

import (
	"fmt"
	"net/url"
)

const qrImageBase = "https://img.vietqr.io/image"

// BuildQRURL composes the VietQR image URL a client renders for a bank
// transfer. No network call happens here; this is string composition only.
func BuildQRURL(bankCode, accountNumber string, amount int64, transferContent, accountHolder string) string {
	return fmt.Sprintf("%s/%s-%s-compact2.png?amount=%d&addInfo=%s&accountName=%s",
		qrImageBase,
		bankCode,
		accountNumber,
		amount,
		url.QueryEscape(transferContent),
		url.QueryEscape(accountHolder),
	)
}
