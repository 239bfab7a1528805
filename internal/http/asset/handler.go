package asset

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/amount"
	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/http/middleware"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// maxUploadSize caps gear sheet uploads.
const maxUploadSize = 10 << 20

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
	r.Post("/import", h.importSheet)
	r.Post("/seed", h.seed)
}

type listResponse struct {
	Assets     []model.Asset   `json:"assets"`
	Categories []string        `json:"categories"`
	Count      int             `json:"count"`
	Value      decimal.Decimal `json:"value"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := middleware.Session(r.Context()).Inventory.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	assets := filter.Assets(all, filter.AssetQuery{
		Search:    r.URL.Query().Get("q"),
		Category:  r.URL.Query().Get("category"),
		Condition: model.Condition(r.URL.Query().Get("condition")),
	})
	if assets == nil {
		assets = []model.Asset{}
	}

	totals := filter.Totals(all)

	respond.JSON(w, http.StatusOK, listResponse{
		Assets:     assets,
		Categories: filter.AssetCategories(all),
		Count:      totals.Count,
		Value:      totals.Value,
	})
}

type assetRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Brand        string          `json:"brand"`
	Condition    model.Condition `json:"condition"`
	Value        string          `json:"value"`
	PurchaseDate string          `json:"purchaseDate"`
	Notes        string          `json:"notes"`
}

func (req assetRequest) params() (inventory.AssetParams, error) {
	purchased, err := model.ParseDay(req.PurchaseDate)
	if err != nil {
		return inventory.AssetParams{}, fmt.Errorf("purchase date %q: %w", req.PurchaseDate, model.ErrValidation)
	}

	return inventory.AssetParams{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Brand:        req.Brand,
		Condition:    req.Condition,
		Value:        amount.Parse(req.Value),
		PurchaseDate: purchased,
		Notes:        req.Notes,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, err)
		return
	}

	a, err := middleware.Session(r.Context()).Inventory.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := middleware.Session(r.Context()).Inventory.Update(r.Context(), chi.URLParam(r, "id"), params); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Session(r.Context()).Inventory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Added int `json:"added"`
}

// importSheet accepts the gear sheet as a multipart "file" field.
func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large or invalid form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	added, err := middleware.Session(r.Context()).ImportGears(r.Context(), file)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, importResponse{Added: added})
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	added, err := middleware.Session(r.Context()).SeedGears(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, importResponse{Added: added})
}
