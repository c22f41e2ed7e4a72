package premiumrequest

// SubmitRequest is the JSON body of POST /api/v1/premium/request. The caller
// identity comes from the auth middleware, never from the body.
type SubmitRequest struct {
	UserEmail     string `json:"userEmail"`
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	Notes         string `json:"notes"`
}

// SubmitInput is the validated intake passed to the request service.
type SubmitInput struct {
	UserID        string
	UserEmail     string
	PaymentMethod string
	TransactionID string
	Notes         string
}
