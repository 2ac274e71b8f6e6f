package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

// EventSource is the subscription side of the event bus.
type EventSource interface {
	Subscribe(buffer int) (<-chan domain.Event, func())
}

type HTTPHandler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
	admin   *service.AdminService
	reports *service.ReportService
	events  EventSource
	logger  *zap.Logger
}

type PlaceOrderHTTPRequest struct {
	RequestID         string `json:"request_id"`
	ProductID         string `json:"product_id"`
	Size              string `json:"size"`
	InstagramUsername string `json:"instagram_username"`
}

type PlaceOrderHTTPResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	admin *service.AdminService,
	reports *service.ReportService,
	events EventSource,
	logger *zap.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		catalog: catalog,
		orders:  orders,
		admin:   admin,
		reports: reports,
		events:  events,
		logger:  logger,
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /api/site", h.NavBar)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/events", h.Events)

	mux.HandleFunc("GET /api/admin/site", h.SiteConfig)
	mux.HandleFunc("PUT /api/admin/site", h.UpdateSiteConfig)
	mux.HandleFunc("GET /api/admin/orders", h.ListOrders)
	mux.HandleFunc("GET /api/admin/stats", h.Dashboard)
	mux.HandleFunc("POST /api/admin/products", h.CreateProduct)
	mux.HandleFunc("PUT /api/admin/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.DeleteProduct)
	mux.HandleFunc("GET /api/admin/reports/orders", h.ExportOrders)
	mux.HandleFunc("GET /api/admin/reports/customers", h.ExportCustomers)
	mux.HandleFunc("GET /api/admin/reports/products/{id}", h.ExportProductOrders)
	return mux
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) NavBar(w http.ResponseWriter, r *http.Request) {
	nav, err := h.catalog.NavBar(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PlaceOrderHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		RequestID: req.RequestID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Handle:    req.InstagramUsername,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderHTTPResponse{
		Success: true,
		Message: "order placed successfully",
		Order:   &order,
	})
}

// Events streams domain events as server-sent events until the client goes away.
func (h *HTTPHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := h.events.Subscribe(16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to encode event", zap.String("event", event.EventType()), zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType(), data)
			flusher.Flush()
		}
	}
}

func (h *HTTPHandler) SiteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.admin.SiteConfig(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *HTTPHandler) UpdateSiteConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.SiteConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	saved, err := h.admin.UpdateSiteConfig(r.Context(), cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.admin.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	p.ID = ""

	saved, err := h.admin.SaveDraft(r.Context(), &domain.ProductDraft{Product: p})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	p.ID = r.PathValue("id")

	saved, err := h.admin.SaveDraft(r.Context(), &domain.ProductDraft{Product: p})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.admin.DeleteProduct(r.Context(), r.PathValue("id"), confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.ExportOrders(r.Context())
	h.writeReport(w, report, err)
}

func (h *HTTPHandler) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.ExportCustomers(r.Context())
	h.writeReport(w, report, err)
}

func (h *HTTPHandler) ExportProductOrders(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.ExportProductOrders(r.Context(), r.PathValue("id"))
	h.writeReport(w, report, err)
}

func (h *HTTPHandler) writeReport(w http.ResponseWriter, report domain.Report, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.reports.Render(&buf, report); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", h.reports.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.FileName}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingSelection):
		return http.StatusBadRequest, "size and instagram username are required"
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidSiteConfig):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, port.ErrOptimisticLock):
		return http.StatusConflict, "concurrent update, try again"
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusGone, "sold out"
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, "confirmation required"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
