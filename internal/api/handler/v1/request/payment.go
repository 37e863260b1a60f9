package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	TicketID uint   `json:"ticket_id"`
	TaskIDs  []uint `json:"task_ids"`
}

func (req *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketID, validation.Required, validation.Min(uint(1))),
	)
}

// SwishCallbackRequest mirrors the payload Swish posts to the callback
// URL. The amount arrives in SEK, not öre.
type SwishCallbackRequest struct {
	ID                    string          `json:"id"`
	PayeePaymentReference string          `json:"payeePaymentReference"`
	PaymentReference      string          `json:"paymentReference"`
	CallbackURL           string          `json:"callbackUrl"`
	PayerAlias            string          `json:"payerAlias"`
	PayeeAlias            string          `json:"payeeAlias"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Message               string          `json:"message"`
	DateCreated           string          `json:"dateCreated"`
	DatePaid              string          `json:"datePaid"`
	ErrorCode             string          `json:"errorCode"`
	ErrorMessage          string          `json:"errorMessage"`
}

// AmountInOre converts the SEK amount to öre.
func (req *SwishCallbackRequest) AmountInOre() int64 {
	return req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (req *SwishCallbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PayeePaymentReference, validation.Required),
		validation.Field(&req.Status, validation.Required),
	)
}
