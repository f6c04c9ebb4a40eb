package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/fixtures"
	"github.com/oficina-erp/payroll-engine/internal/handler/http/response"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/jwt"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	taxservice "github.com/oficina-erp/payroll-engine/internal/service/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKE SERVICES =====

type fakePayrollService struct {
	saved []payroll.BuildPayrollRequest
}

func (f *fakePayrollService) Preview(ctx context.Context, req payroll.BuildPayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.PayrollResponse{EmployeeID: req.EmployeeID, NetSalary: decimal.NewFromInt(2430)}, nil
}

func (f *fakePayrollService) Save(ctx context.Context, req payroll.BuildPayrollRequest) (payroll.PayrollResponse, error) {
	f.saved = append(f.saved, req)
	return payroll.PayrollResponse{ID: "sheet-1", EmployeeID: req.EmployeeID}, nil
}

func (f *fakePayrollService) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if id != "sheet-1" {
		return payroll.PayrollResponse{}, payroll.ErrPayrollRecordNotFound
	}
	return payroll.PayrollResponse{ID: id}, nil
}

func (f *fakePayrollService) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	filter.Normalize()
	return payroll.ListPayrollResponse{
		Data:       []payroll.PayrollResponse{{ID: "sheet-1"}},
		TotalCount: 41,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (f *fakePayrollService) Recalculate(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return f.Get(ctx, id)
}

func (f *fakePayrollService) PreviewCommission(ctx context.Context, employeeID string, month string) (payroll.CommissionResponse, error) {
	if employeeID == "" {
		return payroll.CommissionResponse{}, employee.ErrEmployeeRequired
	}
	return payroll.CommissionResponse{EmployeeID: employeeID, Value: decimal.NewFromInt(100)}, nil
}

func (f *fakePayrollService) GetRecord(ctx context.Context, id string) (payroll.MonthlyPayroll, error) {
	return payroll.MonthlyPayroll{
		ID:         id,
		EmployeeID: "emp-1",
		Competence: competence.New(2024, time.June),
		NetSalary:  decimal.NewFromInt(2430),
	}, nil
}

type fakeBonusService struct{}

func (fakeBonusService) Preview(ctx context.Context, req bonus.CalculateBonusRequest) (bonus.BonusResponse, error) {
	return bonus.BonusResponse{EmployeeID: req.EmployeeID, Year: req.Year}, nil
}

func (fakeBonusService) Save(ctx context.Context, req bonus.CalculateBonusRequest) (bonus.BonusResponse, error) {
	if req.EditedTwelfths != nil && *req.EditedTwelfths > 12 {
		return bonus.BonusResponse{}, validator.ValidationErrors{{Field: "edited_twelfths", Message: "must be between 0 and 12"}}
	}
	return bonus.BonusResponse{ID: "bonus-1"}, nil
}

func (fakeBonusService) Get(ctx context.Context, id string) (bonus.BonusResponse, error) {
	return bonus.BonusResponse{}, bonus.ErrBonusRecordNotFound
}

func (fakeBonusService) List(ctx context.Context, filter bonus.BonusFilter) (bonus.ListBonusResponse, error) {
	return bonus.ListBonusResponse{Page: 1, Limit: 20}, nil
}

func (fakeBonusService) UpdateTwelfths(ctx context.Context, req bonus.UpdateTwelfthsRequest) (bonus.BonusResponse, error) {
	status := bonus.StatusGenerated
	if req.EditedTwelfths != nil {
		status = bonus.StatusEdited
	}
	return bonus.BonusResponse{ID: req.ID, Status: string(status)}, nil
}

func (fakeBonusService) GetRecord(ctx context.Context, id string) (bonus.Record, error) {
	return bonus.Record{ID: id, Year: 2024, Installment: bonus.InstallmentSingle}, nil
}

type fakePositionService struct{}

func (fakePositionService) Create(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	return position.PositionResponse{ID: "pos-1", Name: req.Name}, nil
}

func (fakePositionService) Get(ctx context.Context, id string) (position.PositionResponse, error) {
	return position.PositionResponse{ID: id}, nil
}

func (fakePositionService) List(ctx context.Context) ([]position.PositionResponse, error) {
	return []position.PositionResponse{}, nil
}

func (fakePositionService) Update(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	return position.PositionResponse{ID: req.ID}, nil
}

func (fakePositionService) SeedDefaults(ctx context.Context) ([]position.PositionResponse, error) {
	return nil, nil
}

// ===== HELPERS =====

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	handler  http.Handler
	jwt      jwt.Service
	payrolls *fakePayrollService
}

func newTestServer() *testServer {
	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")
	payrolls := &fakePayrollService{}
	taxSvc := taxservice.NewTaxService(taxservice.NewResolver(nil, fixtures.GetBracketTables()))

	router := NewRouter(jwtSvc, Handlers{
		Position: NewPositionHandler(fakePositionService{}),
		Payroll:  NewPayrollHandler(payrolls, "Oficina Central"),
		Bonus:    NewBonusHandler(fakeBonusService{}, "Oficina Central"),
		Tax:      NewTaxHandler(taxSvc),
	}, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	return &testServer{handler: router, jwt: jwtSvc, payrolls: payrolls}
}

func (s *testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-1", "company-1", role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ===== TESTS =====

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/api/v1/payroll", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollHandler_PreviewValidation(t *testing.T) {
	s := newTestServer()
	token := s.token(t, user.RoleOperator)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, map[string]any{
		"employee_id": "emp-1",
		"competence":  "2024-06",
		"worked_days": 45,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body.Error.Details, "worked_days")

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, map[string]any{
		"competence": "2024-06",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, map[string]any{
		"employee_id": "emp-1",
		"competence":  "2024-06",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPayrollHandler_SaveRequiresManager(t *testing.T) {
	s := newTestServer()
	req := map[string]any{"employee_id": "emp-1", "competence": "2024-06"}

	rec := s.do(t, http.MethodPost, "/api/v1/payroll", s.token(t, user.RoleOperator), req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, s.payrolls.saved)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll", s.token(t, user.RoleManager), req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, s.payrolls.saved, 1)
}

func TestPayrollHandler_InvalidBody(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/preview", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+s.token(t, user.RoleManager))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_ListMeta(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/api/v1/payroll?page=2&limit=20&competence=2024-06", s.token(t, user.RoleOperator), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.EqualValues(t, 41, body.Meta.TotalItems)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestPayrollHandler_GetNotFound(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/api/v1/payroll/missing", s.token(t, user.RoleOperator), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollHandler_Payslip(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/api/v1/payroll/sheet-1/payslip.pdf", s.token(t, user.RoleOperator), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "holerite-2024-06-emp-1.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestPayrollHandler_PreviewCommission(t *testing.T) {
	s := newTestServer()
	token := s.token(t, user.RoleOperator)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll/commission?employee_id=emp-1&competence=2024-06", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/commission?competence=2024-06", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBonusHandler_SaveValidationError(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodPost, "/api/v1/annual-bonus", s.token(t, user.RoleManager), map[string]any{
		"employee_id":     "emp-1",
		"year":            2024,
		"installment":     "single",
		"edited_twelfths": 13,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "edited_twelfths")
}

func TestBonusHandler_UpdateTwelfths(t *testing.T) {
	s := newTestServer()
	token := s.token(t, user.RoleManager)

	rec := s.do(t, http.MethodPut, "/api/v1/annual-bonus/bonus-1/twelfths", token, map[string]any{"edited_twelfths": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "bonus-1", data["id"])
	assert.Equal(t, "edited", data["status"])

	rec = s.do(t, http.MethodPut, "/api/v1/annual-bonus/bonus-1/twelfths", token, map[string]any{"edited_twelfths": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "generated", decode(t, rec).Data.(map[string]any)["status"])

	rec = s.do(t, http.MethodPut, "/api/v1/annual-bonus/bonus-1/twelfths", s.token(t, user.RoleOperator), map[string]any{"edited_twelfths": 6})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBonusHandler_Receipt(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/api/v1/annual-bonus/bonus-1/receipt.pdf", s.token(t, user.RoleOperator), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestTaxHandler_Tables(t *testing.T) {
	s := newTestServer()
	token := s.token(t, user.RoleOperator)

	rec := s.do(t, http.MethodGet, "/api/v1/tax/tables/2024", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.EqualValues(t, 2024, data["year"])
	assert.Nil(t, data["warnings"])

	rec = s.do(t, http.MethodGet, "/api/v1/tax/tables/2030", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decode(t, rec).Data.(map[string]any)
	assert.EqualValues(t, 2025, data["year"])
	assert.NotEmpty(t, data["warnings"])

	rec = s.do(t, http.MethodGet, "/api/v1/tax/tables/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaxHandler_Withholding(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodPost, "/api/v1/tax/withholding", s.token(t, user.RoleOperator), map[string]any{
		"year": 2024,
		"kind": "social_security",
		"base": 3000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "258.82", data["value"])
}

func TestPositionHandler_ManageRequiresOwner(t *testing.T) {
	s := newTestServer()
	req := map[string]any{"name": "Pintor"}

	rec := s.do(t, http.MethodPost, "/api/v1/positions", s.token(t, user.RoleManager), req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/positions", s.token(t, user.RoleOwner), req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/positions", s.token(t, user.RoleOperator), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
