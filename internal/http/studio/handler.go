// Package studio serves the account-wide endpoints: dashboard statistics,
// settings, backups and data reset.
package studio

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/backup"
	"github.com/MrJamesThe3rd/lensflow/internal/http/middleware"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

// maxBackupSize caps uploaded backup documents.
const maxBackupSize = 50 << 20

type Handler struct {
	guard        *auth.Guard
	settingsPath string
	now          func() time.Time
}

func NewHandler(guard *auth.Guard, settingsPath string) *Handler {
	return &Handler{
		guard:        guard,
		settingsPath: settingsPath,
		now:          time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/settings", h.getSettings)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Put("/settings", h.putSettings)
		r.Get("/backup", h.exportBackup)
		r.Post("/backup", h.importBackup)
		r.Post("/backup/archive", h.archiveBackup)
		r.Post("/backup/archive/restore", h.restoreArchive)
		r.With(middleware.ConfirmAdmin(h.guard)).Post("/data/clear", h.clearData)
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, middleware.Session(r.Context()).Ledger.Stats())
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := settings.Load(h.settingsPath)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var st settings.Settings
	if err := respond.Decode(r, &st); err != nil {
		respond.Error(w, err)
		return
	}

	if err := settings.Save(h.settingsPath, st); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) exportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+backup.FileName(h.now())+`"`)

	if err := middleware.Session(r.Context()).Backup.Export(r.Context(), w); err != nil {
		respond.Error(w, err)
		return
	}
}

// importBackup reads the backup document from the request body.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupSize)

	sum, err := middleware.Session(r.Context()).ImportBackup(r.Context(), r.Body)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, sum)
}

type archiveResponse struct {
	Key string `json:"key"`
}

func (h *Handler) archiveBackup(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.Session(r.Context()).ArchiveBackup(r.Context())
	if err != nil {
		h.archiveError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, archiveResponse{Key: key})
}

type restoreRequest struct {
	// Key defaults to the newest backup.
	Key string `json:"key"`
}

func (h *Handler) restoreArchive(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, err)
			return
		}
	}

	sum, err := middleware.Session(r.Context()).RestoreArchive(r.Context(), req.Key)
	if err != nil {
		h.archiveError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, sum)
}

func (h *Handler) archiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrArchiveDisabled) {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}

	respond.Error(w, err)
}

func (h *Handler) clearData(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Session(r.Context()).ClearAllData(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
