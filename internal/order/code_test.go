package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{8}[A-Z0-9]{4}$`)

	for i := 0; i < 50; i++ {
		code := GenerateOrderCode()
		assert.Regexp(t, pattern, code)
		assert.Equal(t, time.Now().Format("20060102"), code[:8])
	}
}

func TestTransferContent(t *testing.T) {
	assert.Equal(t, "DH20260901ABCD", TransferContent("20260901ABCD"))
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare_code", "20260901ABCD", "20260901ABCD"},
		{"lowercase_code", "20260901abcd", "20260901ABCD"},
		{"full_transfer_reference", "DH20260901ABCD", "20260901ABCD"},
		{"lowercase_prefix", "dh20260901abcd", "20260901ABCD"},
		{"surrounding_whitespace", "  DH20260901ABCD  ", "20260901ABCD"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.input))
		})
	}
}
