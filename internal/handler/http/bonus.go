package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/handler/http/response"
	"github.com/oficina-erp/payroll-engine/internal/pkg/pdf"
)

type BonusHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateTwelfths(w http.ResponseWriter, r *http.Request)
	Receipt(w http.ResponseWriter, r *http.Request)
}

type bonusHandlerImpl struct {
	bonusService bonus.BonusService
	companyName  string
}

func NewBonusHandler(bonusService bonus.BonusService, companyName string) BonusHandler {
	return &bonusHandlerImpl{bonusService: bonusService, companyName: companyName}
}

func (h *bonusHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req bonus.CalculateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bonusService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bonusHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req bonus.CalculateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bonusService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Annual bonus saved successfully", result)
}

func (h *bonusHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.bonusService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bonusHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter bonus.BonusFilter

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.Year = &year
		}
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if installment := r.URL.Query().Get("installment"); installment != "" {
		filter.Installment = &installment
	}

	result, err := h.bonusService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

func (h *bonusHandlerImpl) UpdateTwelfths(w http.ResponseWriter, r *http.Request) {
	var req bonus.UpdateTwelfthsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.bonusService.UpdateTwelfths(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Twelfths updated successfully", result)
}

func (h *bonusHandlerImpl) Receipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.bonusService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.WriteBonusReceipt(&buf, pdf.Header{CompanyName: h.companyName, IssuedAt: time.Now()}, record); err != nil {
		response.HandleError(w, err)
		return
	}

	response.PDF(w, fmt.Sprintf("13-salario-%d-%s-%s.pdf", record.Year, record.Installment, record.EmployeeID), buf.Bytes())
}
