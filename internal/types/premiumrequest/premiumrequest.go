package premiumrequest

import (
	"time"
)

type PaymentMethod string

const (
	PaymentPayPal   PaymentMethod = "paypal"
	PaymentWhatsApp PaymentMethod = "whatsapp"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPayPal || m == PaymentWhatsApp
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Request is one document in the premium_requests collection. Status moves
// pending -> approved exactly once; requests are never deleted.
type Request struct {
	ID            string        `json:"id" firestore:"-"`
	UserID        string        `json:"userId" firestore:"userId"`
	UserEmail     string        `json:"userEmail" firestore:"userEmail"`
	PaymentMethod PaymentMethod `json:"paymentMethod" firestore:"paymentMethod"`
	TransactionID string        `json:"transactionId" firestore:"transactionId"`
	Notes         string        `json:"notes" firestore:"notes"`
	Status        Status        `json:"status" firestore:"status"`
	RequestDate   time.Time     `json:"requestDate" firestore:"requestDate"`
	ApprovedAt    *time.Time    `json:"approvedAt,omitempty" firestore:"approvedAt"`
	ApprovedBy    string        `json:"approvedBy,omitempty" firestore:"approvedBy"`
	Amount        float64       `json:"amount" firestore:"amount"`
	Currency      string        `json:"currency" firestore:"currency"`
}
