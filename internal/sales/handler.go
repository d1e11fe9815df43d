package sales

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Handler manages sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type saleForm struct {
	CustomerID int64      `json:"customer_id" validate:"required"`
	ProductID  int64      `json:"product_id" validate:"required"`
	Quantity   int64      `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64    `json:"unit_price"`
	Discount   float64    `json:"discount"`
	Tax        float64    `json:"tax"`
	RoundOff   float64    `json:"round_off"`
	Total      *float64   `json:"total"`
	SaleDate   *time.Time `json:"sale_date"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		filter.CustomerID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("product_id"); v != "" {
		filter.ProductID, _ = strconv.ParseInt(v, 10, 64)
	}

	sales, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, sales, len(sales))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form saleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	input := CreateSaleInput{
		CustomerID: form.CustomerID,
		ProductID:  form.ProductID,
		Quantity:   form.Quantity,
		UnitPrice:  form.UnitPrice,
		Discount:   form.Discount,
		Tax:        form.Tax,
		RoundOff:   form.RoundOff,
		Total:      form.Total,
	}
	if form.SaleDate != nil {
		input.SaleDate = *form.SaleDate
	}

	sale, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, sale)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, sale)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var form saleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	input := UpdateSaleInput{
		CustomerID: form.CustomerID,
		ProductID:  form.ProductID,
		Quantity:   form.Quantity,
		UnitPrice:  form.UnitPrice,
		Discount:   form.Discount,
		Tax:        form.Tax,
		RoundOff:   form.RoundOff,
		Total:      form.Total,
	}
	if form.SaleDate != nil {
		input.SaleDate = *form.SaleDate
	}

	sale, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, sale)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "sale deleted")
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	rng := shared.ParseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), time.Now())
	summary, err := h.service.Summarize(r.Context(), rng.Start, rng.End)
	if err != nil {
		h.logger.Error("sales summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, summary)
}
