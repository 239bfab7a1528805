package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lensflow/internal/http/middleware"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

type Handler struct {
	settingsPath string
}

// NewHandler reads the notifications toggle from the settings document at
// settingsPath before every scan.
func NewHandler(settingsPath string) *Handler {
	return &Handler{settingsPath: settingsPath}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/scan", h.scan)
	r.Post("/{id}/read", h.markRead)
}

type listResponse struct {
	Unread        int                  `json:"unread"`
	Notifications []model.Notification `json:"notifications"`
}

func toListResponse(ns []model.Notification) listResponse {
	resp := listResponse{Notifications: ns}
	if resp.Notifications == nil {
		resp.Notifications = []model.Notification{}
	}

	for _, n := range ns {
		if !n.IsRead {
			resp.Unread++
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toListResponse(middleware.Session(r.Context()).Ledger.Notifications()))
}

type scanResponse struct {
	Transitioned int  `json:"transitioned"`
	Emitted      int  `json:"emitted"`
	Failures     int  `json:"failures"`
	Enabled      bool `json:"enabled"`
	listResponse
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	st, err := settings.Load(h.settingsPath)
	if err != nil {
		respond.Error(w, err)
		return
	}

	res, err := middleware.Session(r.Context()).Scan(r.Context(), st)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, scanResponse{
		Transitioned: res.Transitioned,
		Emitted:      res.Emitted,
		Failures:     res.Failures,
		Enabled:      st.NotificationsEnabled,
		listResponse: toListResponse(res.Notifications),
	})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Session(r.Context()).Ledger.MarkNotificationRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
