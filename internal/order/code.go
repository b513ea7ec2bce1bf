package order

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// TransferPrefix is prepended to the order code to form the bank-transfer
// reference. Inbound lookups accept either the bare code or the full
// reference, so the prefix is stripped case-insensitively on the way in.
const TransferPrefix = "DH"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeRandLen = 4

// GenerateOrderCode returns the current date (YYYYMMDD) followed by four
// random uppercase alphanumeric characters, e.g. "20260901X7K2".
//
// Uniqueness is probabilistic, not guaranteed: a same-day collision is
// possible and surfaces at insert time as ErrDuplicateOrderCode. The
// collision space (36^4 per day) is accepted as-is; there is no automatic
// regenerate-and-retry.
func GenerateOrderCode() string {
	var sb strings.Builder
	sb.WriteString(time.Now().Format("20060102"))
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeRandLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String()
}

// TransferContent builds the bank-transfer reference for an order code.
func TransferContent(orderCode string) string {
	return TransferPrefix + orderCode
}

// NormalizeCode prepares a user-supplied order code for lookup: trims
// whitespace, uppercases, and strips the transfer prefix if the user
// pasted the full transfer reference instead of the bare code.
func NormalizeCode(s string) string {
	code := strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(code, TransferPrefix)
}
