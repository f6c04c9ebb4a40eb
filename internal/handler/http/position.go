package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/handler/http/response"
)

type PositionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	SeedDefaults(w http.ResponseWriter, r *http.Request)
}

type positionHandlerImpl struct {
	positionService position.PositionService
}

func NewPositionHandler(positionService position.PositionService) PositionHandler {
	return &positionHandlerImpl{positionService: positionService}
}

func (h *positionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req position.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.positionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position created successfully", result)
}

func (h *positionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.positionService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *positionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.positionService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *positionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req position.UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.positionService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Position updated successfully", result)
}

func (h *positionHandlerImpl) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	results, err := h.positionService.SeedDefaults(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Default positions created", results)
}
