package points

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwork/points-api/internal/pkg/errorhandler"
	"github.com/mwork/points-api/internal/pkg/response"
	"github.com/mwork/points-api/internal/pkg/validator"
)

// Messages returned for spend failures. Clients of the service match on them.
const (
	MsgInsufficientPoints = "Insufficient points"
	MsgInvalidAmount      = "Cannot spend less than one point"
)

// Handler handles points HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates new points handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// AddTransaction handles POST /points/transaction
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	h.svc.AddTransaction(r.Context(), req.ToTransaction())
	response.Status(w, http.StatusOK)
}

// Spend handles POST /points/spend
func (h *Handler) Spend(w http.ResponseWriter, r *http.Request) {
	var req SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	deltas, err := h.svc.Spend(r.Context(), req.Points)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientPoints):
			response.Error(w, http.StatusUnprocessableEntity, "INSUFFICIENT_POINTS", MsgInsufficientPoints)
		case errors.Is(err, ErrInvalidAmount):
			response.Error(w, http.StatusBadRequest, "INVALID_AMOUNT", MsgInvalidAmount)
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		}
		return
	}

	response.Raw(w, http.StatusOK, deltas)
}

// Balances handles GET /points/balances
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, h.svc.GetBalances(r.Context()))
}

// Transactions handles GET /points/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, h.svc.ListTransactions(r.Context()))
}
