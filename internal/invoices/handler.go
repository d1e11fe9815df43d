package invoices

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

// Handler manages invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/overdue", h.overdue)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/status", h.changeStatus)
	r.Post("/{id}/send", h.send)
	r.Get("/{id}/payments", h.listPayments)
	r.Post("/{id}/payments", h.recordPayment)
	r.Post("/{id}/items", h.addLine)
	r.Put("/{id}/items/{itemID}", h.updateLine)
	r.Delete("/{id}/items/{itemID}", h.deleteLine)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: Status(r.URL.Query().Get("status"))}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		filter.CustomerID, _ = strconv.ParseInt(v, 10, 64)
	}

	invoices, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, invoices, len(invoices))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createInvoiceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	input := CreateInvoiceInput{
		CustomerID:  form.CustomerID,
		Number:      form.Number,
		DueDate:     form.DueDate,
		TotalAmount: form.TotalAmount,
		Tax:         form.Tax,
		Discount:    form.Discount,
		Notes:       form.Notes,
	}
	if form.IssueDate != nil {
		input.IssueDate = *form.IssueDate
	}
	for _, item := range form.Items {
		input.Lines = append(input.Lines, LineInput{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Description: item.Description,
		})
	}

	invoice, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, invoice)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, invoice)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	var form updateInvoiceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.service.Update(r.Context(), id, UpdateInvoiceInput{
		CustomerID:  form.CustomerID,
		IssueDate:   form.IssueDate,
		DueDate:     form.DueDate,
		TotalAmount: form.TotalAmount,
		Tax:         form.Tax,
		Discount:    form.Discount,
		Notes:       form.Notes,
	})
	if err != nil {
		h.logger.Error("update invoice", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, invoice)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "invoice deleted")
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	var form statusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ChangeStatus(r.Context(), id, Status(form.Status)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "status updated")
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	if err := h.service.Send(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "invoice sent")
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, payments, len(payments))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	var form paymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	input := PaymentInput{
		Amount:    form.Amount,
		Method:    form.Method,
		Reference: form.Reference,
		Note:      form.Note,
	}
	if form.PaidAt != nil {
		input.PaidAt = *form.PaidAt
	}

	payment, err := h.service.RecordPayment(r.Context(), id, input)
	if err != nil {
		h.logger.Error("record payment", slog.Any("error", err), slog.Int64("invoice_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, payment)
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	var form lineForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	line, err := h.service.AddLine(r.Context(), id, LineInput{
		ProductID:   form.ProductID,
		Quantity:    form.Quantity,
		UnitPrice:   form.UnitPrice,
		Description: form.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, line)
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid line item id")
		return
	}
	var form lineForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	line, err := h.service.UpdateLine(r.Context(), id, itemID, LineInput{
		ProductID:   form.ProductID,
		Quantity:    form.Quantity,
		UnitPrice:   form.UnitPrice,
		Description: form.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, line)
}

func (h *Handler) deleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid line item id")
		return
	}
	if err := h.service.DeleteLine(r.Context(), id, itemID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "line item deleted")
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	rng := shared.ParseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), time.Now())
	summary, err := h.service.Summarize(r.Context(), rng.Start, rng.End)
	if err != nil {
		h.logger.Error("invoice summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, summary)
}

func (h *Handler) overdue(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.Overdue(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("overdue invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKCount(w, http.StatusOK, invoices, len(invoices))
}
