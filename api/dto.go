/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP edge. They decouple the ledger model from
  the wire format: amounts travel as decimal strings (never JSON floats),
  dates as "2006-01-02", timestamps as RFC 3339.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/norwaiw/NetDebt/ledger"
	"github.com/norwaiw/NetDebt/store"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DebtDTO represents a debt with its derived state in API responses.
type DebtDTO struct {
	ID              string       `json:"id"`
	PersonName      string       `json:"person_name"`
	IsOwedToMe      bool         `json:"is_owed_to_me"`
	Amount          string       `json:"amount"`
	Currency        string       `json:"currency"`
	DueDate         *string      `json:"due_date,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	InterestRate    string       `json:"interest_rate"`
	IsPaid          bool         `json:"is_paid"`
	DateCreated     string       `json:"date_created"`
	RemainingAmount string       `json:"remaining_amount"`
	PaymentProgress string       `json:"payment_progress"`
	Status          string       `json:"status"`
	Urgency         string       `json:"urgency"`
	RemainingDays   *int         `json:"remaining_days,omitempty"`
	Payments        []PaymentDTO `json:"payments"`
}

// PaymentDTO represents one recorded payment.
type PaymentDTO struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note,omitempty"`
}

// SummaryDTO is the aggregate view for the main screen.
type SummaryDTO struct {
	TotalOwedToMe string `json:"total_owed_to_me"`
	TotalIOwe     string `json:"total_i_owe"`
	UnpaidCount   int    `json:"unpaid_count"`
	PaidCount     int    `json:"paid_count"`
	OverdueCount  int    `json:"overdue_count"`
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateDebtRequest creates a debt. Amount and InterestRate are decimal
// strings; DueDate is "2006-01-02".
type CreateDebtRequest struct {
	PersonName   string  `json:"person_name"`
	IsOwedToMe   bool    `json:"is_owed_to_me"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	InterestRate string  `json:"interest_rate,omitempty"`
}

// UpdateDebtRequest edits a debt's descriptive fields and due date.
type UpdateDebtRequest struct {
	PersonName   string  `json:"person_name"`
	IsOwedToMe   bool    `json:"is_owed_to_me"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	InterestRate string  `json:"interest_rate,omitempty"`
}

// AddPaymentRequest records a payment against a debt.
type AddPaymentRequest struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

const dateLayout = "2006-01-02"

func toDebtDTO(d ledger.Debt, now time.Time) DebtDTO {
	dto := DebtDTO{
		ID:              d.ID,
		PersonName:      d.PersonName,
		IsOwedToMe:      d.IsOwedToMe,
		Amount:          d.Amount.String(),
		Currency:        d.Currency,
		Notes:           d.Notes,
		InterestRate:    d.InterestRate.String(),
		IsPaid:          d.IsPaid,
		DateCreated:     d.DateCreated.Format(time.RFC3339),
		RemainingAmount: d.RemainingAmount().String(),
		PaymentProgress: d.PaymentProgress().String(),
		Status:          string(d.Status()),
		Urgency:         string(d.UrgencyAt(now)),
		Payments:        make([]PaymentDTO, 0, len(d.Payments)),
	}
	if d.DueDate != nil {
		due := d.DueDate.Format(dateLayout)
		dto.DueDate = &due
	}
	if days, ok := d.RemainingDays(now); ok {
		dto.RemainingDays = &days
	}
	for _, p := range d.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:     p.ID,
			Amount: p.Amount.String(),
			Date:   p.Date.Format(time.RFC3339),
			Note:   p.Note,
		})
	}
	return dto
}

func toDebtDTOs(debts []ledger.Debt, now time.Time) []DebtDTO {
	dtos := make([]DebtDTO, 0, len(debts))
	for _, d := range debts {
		dtos = append(dtos, toDebtDTO(d, now))
	}
	return dtos
}

func toSummaryDTO(s store.Summary) SummaryDTO {
	return SummaryDTO{
		TotalOwedToMe: s.TotalOwedToMe.String(),
		TotalIOwe:     s.TotalIOwe.String(),
		UnpaidCount:   s.UnpaidCount,
		PaidCount:     s.PaidCount,
		OverdueCount:  s.OverdueCount,
	}
}
