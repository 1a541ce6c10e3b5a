package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	date := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	p, err := NewPayment(PaymentParams{
		UserID:           5,
		Amount:           1999,
		Date:             date,
		SubscriptionName: " Gold ",
		TransactionID:    "TX-1",
		Type:             TypeManual,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, p.Status())
	assert.Equal(t, "Gold", p.SubscriptionName())
	assert.Equal(t, date, p.Date())
}

func TestNewPayment_Validation(t *testing.T) {
	_, err := NewPayment(PaymentParams{Amount: 100, Date: time.Now(), Type: TypeManual})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = NewPayment(PaymentParams{UserID: 1, Amount: -5, Date: time.Now(), Type: TypeManual})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewPayment(PaymentParams{UserID: 1, Amount: 5, Date: time.Now(), Type: "cash"})
	assert.Error(t, err)
}

func TestUpdate_KeepsType(t *testing.T) {
	p, err := ReconstructPaymentWithParams(PaymentReconstructParams{
		PaymentParams: PaymentParams{UserID: 1, Amount: 100, Date: time.Now(), Status: StatusComplete, Type: TypeGateway},
		ID:            9,
	})
	require.NoError(t, err)

	require.NoError(t, p.Update(PaymentParams{UserID: 1, Amount: 250, Date: time.Now(), Status: StatusRefunded, Type: TypeManual}))
	assert.Equal(t, TypeGateway, p.Type())
	assert.Equal(t, StatusRefunded, p.Status())
	assert.Equal(t, int64(250), p.Amount())
}
