/*
handlers.go - HTTP handlers for the debt tracker

PURPOSE:
  The edge layer: parses requests, enforces all input validation, and
  delegates to the store. By the time a command reaches the store it is
  valid by contract - the core never re-validates.

ENDPOINTS:
  GET    /api/debts                      List (filter/search/sort)
  POST   /api/debts                      Create debt
  GET    /api/debts/{id}                 Get one debt
  PUT    /api/debts/{id}                 Update debt
  DELETE /api/debts/{id}                 Delete debt
  POST   /api/debts/{id}/payments        Record payment
  DELETE /api/debts/{id}/payments/{pid}  Remove payment
  POST   /api/debts/{id}/toggle-paid     Flip paid status
  GET    /api/summary                    Aggregate totals

ERROR HANDLING:
  - 400: Validation errors (bad amount, empty name, overpayment)
  - 404: Unknown debt or payment id
  Persistence and reminder failures never produce an error status:
  they are logged by the store and the mutation is reported as applied.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/norwaiw/NetDebt/ledger"
	"github.com/norwaiw/NetDebt/store"
)

// Handler holds the edge layer's dependencies.
type Handler struct {
	Store           *store.Store
	DefaultCurrency string
}

// NewHandler creates the API handler.
func NewHandler(s *store.Store, defaultCurrency string) *Handler {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Handler{Store: s, DefaultCurrency: defaultCurrency}
}

// =============================================================================
// DEBT CRUD
// =============================================================================

// ListDebts returns debts matching the query parameters:
// direction, status, q (search), sort, order.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	q := store.Query{
		Direction: store.Direction(r.URL.Query().Get("direction")),
		Status:    store.StatusFilter(r.URL.Query().Get("status")),
		Search:    r.URL.Query().Get("q"),
		Sort:      store.SortKey(r.URL.Query().Get("sort")),
		Ascending: r.URL.Query().Get("order") == "asc",
	}
	now := time.Now()
	writeJSON(w, http.StatusOK, toDebtDTOs(h.Store.List(q, now), now))
}

func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(d, time.Now()))
}

func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	debt, err := h.debtFromRequest(req.PersonName, req.Amount, req.Currency,
		req.InterestRate, req.DueDate, req.Notes, req.IsOwedToMe)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	h.Store.Add(r.Context(), debt)
	writeJSON(w, http.StatusCreated, toDebtDTO(debt, time.Now()))
}

func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	existing, err := h.Store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}

	updated, err := h.debtFromRequest(req.PersonName, req.Amount, req.Currency,
		req.InterestRate, req.DueDate, req.Notes, req.IsOwedToMe)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	// Identity, history and paid status carry over from the stored debt.
	updated.ID = existing.ID
	updated.DateCreated = existing.DateCreated
	updated.IsPaid = existing.IsPaid
	updated.Payments = existing.Payments

	if err := h.Store.Update(r.Context(), updated); err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(updated, time.Now()))
}

func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYMENTS & PAID STATUS
// =============================================================================

func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	debt, err := h.Store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}

	// Overpayment is rejected here, at the edge. The ledger itself would
	// record it and floor the balance, but users entering payments by hand
	// should be told, not silently corrected.
	if amount.GreaterThan(debt.RemainingAmount()) {
		writeError(w, http.StatusBadRequest, "payment exceeds remaining balance", nil)
		return
	}

	updated, err := h.Store.AddPayment(r.Context(), id, amount, req.Note)
	if err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtDTO(updated, time.Now()))
}

func (h *Handler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	paymentID := chi.URLParam(r, "paymentID")

	updated, err := h.Store.RemovePayment(r.Context(), id, paymentID)
	switch {
	case errors.Is(err, store.ErrDebtNotFound):
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	case errors.Is(err, store.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "payment not found", nil)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "remove payment failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(updated, time.Now()))
}

func (h *Handler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Store.TogglePaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "debt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(updated, time.Now()))
}

// =============================================================================
// SUMMARY
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSummaryDTO(h.Store.Summarize(time.Now())))
}

// =============================================================================
// VALIDATION
// =============================================================================

func (h *Handler) debtFromRequest(name, amount, currency, interestRate string,
	dueDate *string, notes string, owedToMe bool) (ledger.Debt, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Debt{}, errors.New("person_name is required")
	}

	principal, err := parsePositiveAmount(amount)
	if err != nil {
		return ledger.Debt{}, err
	}

	if currency == "" {
		currency = h.DefaultCurrency
	}

	debt := ledger.NewDebt(name, principal, currency, owedToMe)
	debt.Notes = notes

	if interestRate != "" {
		rate, err := decimal.NewFromString(interestRate)
		if err != nil || rate.IsNegative() {
			return ledger.Debt{}, errors.New("interest_rate must be a non-negative decimal")
		}
		debt.InterestRate = rate
	}

	if dueDate != nil && *dueDate != "" {
		due, err := time.ParseInLocation(dateLayout, *dueDate, time.Local)
		if err != nil {
			return ledger.Debt{}, errors.New("due_date must be formatted as 2006-01-02")
		}
		debt.DueDate = &due
	}
	return debt, nil
}

func parsePositiveAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, errors.New("amount must be a decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, errors.New("amount must be positive")
	}
	return amount, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
