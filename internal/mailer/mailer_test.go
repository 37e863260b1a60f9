package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"421 service unavailable", errors.New("421 4.7.0 Try again later"), true},
		{"450 mailbox busy", errors.New("450 4.2.1 Mailbox busy"), true},
		{"452 too many recipients", errors.New("452 4.5.3 Too many recipients"), true},
		{"429 passed through", errors.New("gateway said 429 slow down"), true},
		{"explicit rate limit text", errors.New("provider rate limit exceeded"), true},
		{"permanent rejection", errors.New("550 5.1.1 User unknown"), false},
		{"connection refused", errors.New("dial tcp: connection refused"), false},
		{"code embedded in a word", errors.New("message id 4214217 rejected"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRateLimitErr(tt.err))
		})
	}
}
