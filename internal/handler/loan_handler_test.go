package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

func TestPaymentErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", models.ErrInvalidAmount, http.StatusBadRequest},
		{"amount over limit", models.ErrAmountExceedsLimit, http.StatusBadRequest},
		{"already settled", models.ErrInstallmentAlreadySettled, http.StatusConflict},
		{"store write failure", models.ErrRemoteWriteFailed, http.StatusBadGateway},
		{"wrapped store write failure", fmt.Errorf("%w: connection reset", models.ErrRemoteWriteFailed), http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paymentErrorCode(tt.err))
		})
	}
}
