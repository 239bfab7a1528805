package project

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
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.With(middleware.ConfirmAdmin(h.guard)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	l := middleware.Session(r.Context()).Ledger

	ps := filter.Projects(l.Projects(), filter.ProjectQuery{
		Search: r.URL.Query().Get("q"),
		Status: model.Status(r.URL.Query().Get("status")),
	})

	respond.JSON(w, http.StatusOK, toResponseList(ps))
}

type createProjectRequest struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Client      string            `json:"client"`
	Type        model.ServiceType `json:"type"`
	Budget      string            `json:"budget"`
	InitialPaid string            `json:"initialPaid"`
	Deadline    string            `json:"deadline"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	deadline, err := model.ParseDay(req.Deadline)
	if err != nil {
		respond.Error(w, fmt.Errorf("deadline %q: %w", req.Deadline, model.ErrValidation))
		return
	}

	p, err := middleware.Session(r.Context()).Ledger.CreateProject(r.Context(), ledger.ProjectParams{
		ID:          req.ID,
		Title:       req.Title,
		Client:      req.Client,
		Type:        req.Type,
		Budget:      amount.Parse(req.Budget),
		InitialPaid: amount.Parse(req.InitialPaid),
		Deadline:    deadline,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := middleware.Session(r.Context()).Ledger.Project(id)
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateStatusRequest struct {
	Status model.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	p, err := middleware.Session(r.Context()).Ledger.SetProjectStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Session(r.Context()).Ledger.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
