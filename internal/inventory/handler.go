package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Handler manages inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/movements", h.list)
	r.Post("/movements", h.record)
	r.Put("/movements/{id}", h.correct)
	r.Get("/stock", h.stockLevels)
}

type movementForm struct {
	ProductID int64      `json:"product_id" validate:"required"`
	Type      string     `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int64      `json:"quantity" validate:"required,gt=0"`
	TxDate    *time.Time `json:"transaction_date"`
	Reference string     `json:"reference"`
	Note      string     `json:"note"`
}

func (f movementForm) toInput() MovementInput {
	input := MovementInput{
		ProductID: f.ProductID,
		Direction: Direction(f.Type),
		Quantity:  f.Quantity,
		Reference: f.Reference,
		Note:      f.Note,
	}
	if f.TxDate != nil {
		input.TxDate = *f.TxDate
	}
	return input
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := MovementFilter{}
	if v := r.URL.Query().Get("product_id"); v != "" {
		filter.ProductID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	movements, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list movements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, movements, len(movements))
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var form movementForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	movement, err := h.service.Record(r.Context(), form.toInput())
	if err != nil {
		h.logger.Error("record movement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, movement)
}

func (h *Handler) correct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid movement id")
		return
	}
	var form movementForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	movement, err := h.service.Correct(r.Context(), id, form.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, movement)
}

func (h *Handler) stockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.StockLevels(r.Context())
	if err != nil {
		h.logger.Error("stock levels", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, levels, len(levels))
}
