package vision

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"prodtrack/internal/model"
)

func TestDecodeResult(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		payload  string
		expected model.ScanResult
	}{
		{
			name:     "Full result",
			payload:  `{"name":"Latte Intero","code":"8001234567890","expiry_date":"2024-01-10"}`,
			expected: model.ScanResult{Name: "Latte Intero", Code: "8001234567890", ExpiryDate: "2024-01-10"},
		},
		{
			name:     "Null expiry date",
			payload:  `{"name":"Latte Intero","code":"","expiry_date":null}`,
			expected: model.ScanResult{Name: "Latte Intero"},
		},
		{
			name:     "Unparseable expiry date is dropped",
			payload:  `{"name":"Latte","code":"","expiry_date":"best before winter"}`,
			expected: model.ScanResult{Name: "Latte"},
		},
		{
			name:     "Whitespace is trimmed",
			payload:  `{"name":"  Latte  ","code":" 123 ","expiry_date":null}`,
			expected: model.ScanResult{Name: "Latte", Code: "123"},
		},
		{
			name:     "Malformed JSON degrades to empty",
			payload:  `{"name": "Latte"`,
			expected: model.ScanResult{},
		},
		{
			name:     "Empty response degrades to empty",
			payload:  "",
			expected: model.ScanResult{},
		},
		{
			name:     "Non-object JSON degrades to empty",
			payload:  `["nope"]`,
			expected: model.ScanResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decodeResult(tt.payload, logger))
		})
	}
}

func TestDisabledAnalyzer(t *testing.T) {
	a := NewDisabled(zerolog.Nop())
	result := a.Analyze(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	assert.Equal(t, model.ScanResult{}, result)
	assert.False(t, result.Complete())
}
