package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/handler/http/response"
)

type TaxHandler interface {
	ListTables(w http.ResponseWriter, r *http.Request)
	GetTables(w http.ResponseWriter, r *http.Request)
	PreviewWithholding(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService tax.TaxService
}

func NewTaxHandler(taxService tax.TaxService) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

func (h *taxHandlerImpl) ListTables(w http.ResponseWriter, r *http.Request) {
	results, err := h.taxService.ListTables(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *taxHandlerImpl) GetTables(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", map[string]string{"year": "must be a number"})
		return
	}

	result, err := h.taxService.GetTables(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) PreviewWithholding(w http.ResponseWriter, r *http.Request) {
	var req tax.WithholdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.taxService.PreviewWithholding(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
