package domain_test

import (
	"testing"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatTransactionCode(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "afternoon sale",
			at:   time.Date(2026, 8, 28, 14, 5, 0, 0, time.UTC),
			want: "TRNSK-28082026-1405",
		},
		{
			name: "midnight",
			at:   time.Date(2026, 1, 1, 0, 0, 59, 0, time.UTC),
			want: "TRNSK-01012026-0000",
		},
		{
			name: "single digit day and month are zero padded",
			at:   time.Date(2026, 3, 7, 9, 8, 0, 0, time.UTC),
			want: "TRNSK-07032026-0908",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatTransactionCode(tt.at))
		})
	}
}
