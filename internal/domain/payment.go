package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentDeclined PaymentStatus = "declined"
	PaymentErrored  PaymentStatus = "errored"
)

// PaymentRequest is created when a member starts ticket checkout. The
// amount is the task-discounted price; TaskIDs is the snapshot of tasks
// the member volunteered for, assigned once the payment is confirmed.
type PaymentRequest struct {
	ID        uint          `json:"id"`
	Reference string        `json:"reference"`
	TicketID  uint          `json:"ticket_id"`
	UserID    uint          `json:"user_id"`
	Amount    int64         `json:"amount"` // in öre
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	TaskIDs   []uint        `json:"task_ids,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SwishCallback is the payment provider's confirmation payload, posted
// to the callback endpoint when a payment reaches a terminal state.
type SwishCallback struct {
	ID                    string `json:"id"`
	PayeePaymentReference string `json:"payeePaymentReference"`
	PaymentReference      string `json:"paymentReference"`
	CallbackURL           string `json:"callbackUrl"`
	PayerAlias            string `json:"payerAlias,omitempty"`
	PayeeAlias            string `json:"payeeAlias"`
	Amount                int64  `json:"amount"`
	Currency              string `json:"currency"`
	Message               string `json:"message"`
	Status                string `json:"status"`
	DateCreated           string `json:"dateCreated"`
	DatePaid              string `json:"datePaid"`
	ErrorCode             string `json:"errorCode"`
	ErrorMessage          string `json:"errorMessage"`
}
