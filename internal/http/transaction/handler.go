package transaction

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lensflow/internal/amount"
	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/http/middleware"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type Handler struct {
	guard *auth.Guard
}

func NewHandler(guard *auth.Guard) *Handler {
	return &Handler{guard: guard}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.With(middleware.ConfirmAdmin(h.guard)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	l := middleware.Session(r.Context()).Ledger
	ps := l.Projects()

	ts := filter.Transactions(l.Transactions(), ps, filter.TransactionQuery{
		Search:    r.URL.Query().Get("q"),
		Type:      model.TransactionType(r.URL.Query().Get("type")),
		ProjectID: r.URL.Query().Get("project"),
	})

	respond.JSON(w, http.StatusOK, toResponseList(ts, ps))
}

type transactionRequest struct {
	ID          string                `json:"id"`
	Type        model.TransactionType `json:"type"`
	Amount      string                `json:"amount"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Date        string                `json:"date"`
	ProjectID   string                `json:"projectId"`
}

func (req transactionRequest) params() (ledger.TransactionParams, error) {
	amt, err := amount.Required("amount", req.Amount)
	if err != nil {
		return ledger.TransactionParams{}, err
	}

	date, err := model.ParseDay(req.Date)
	if err != nil {
		return ledger.TransactionParams{}, fmt.Errorf("date %q: %w", req.Date, model.ErrValidation)
	}

	return ledger.TransactionParams{
		ID:          req.ID,
		Type:        req.Type,
		Amount:      amt,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		ProjectID:   req.ProjectID,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, err)
		return
	}

	l := middleware.Session(r.Context()).Ledger

	t, err := l.AddTransaction(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponseList([]model.Transaction{t}, l.Projects())[0])
}

// update replaces the editable fields. The date in the body is ignored.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, err)
		return
	}

	l := middleware.Session(r.Context()).Ledger

	t, err := l.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList([]model.Transaction{t}, l.Projects())[0])
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Session(r.Context()).Ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
