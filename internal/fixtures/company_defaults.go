package fixtures

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT POSITIONS
// ==========================================

// GetDefaultPositions returns the standard positions of an automotive workshop.
// Sales roles carry a commission policy; the rest are salaried only.
func GetDefaultPositions(companyID string) []position.Position {
	return []position.Position{
		{CompanyID: companyID, Name: "Gerente"},
		{
			CompanyID:                  companyID,
			Name:                       "Consultor Técnico",
			CommissionEnabled:          true,
			CommissionType:             position.CommissionTypeIndividual,
			CommissionPercent:          decimal.NewFromInt(2),
			MinimumThresholdIndividual: decimal.NewFromInt(10000),
			CommissionBase:             position.CommissionBaseTotal,
		},
		{
			CompanyID:               companyID,
			Name:                    "Mecânico",
			CommissionEnabled:       true,
			CommissionType:          position.CommissionTypeCompany,
			CommissionPercent:       decimal.RequireFromString("0.5"),
			MinimumThresholdCompany: decimal.NewFromInt(50000),
			CommissionBase:          position.CommissionBaseExcess,
		},
		{CompanyID: companyID, Name: "Funileiro"},
		{CompanyID: companyID, Name: "Pintor"},
		{CompanyID: companyID, Name: "Eletricista"},
		{CompanyID: companyID, Name: "Auxiliar Administrativo"},
	}
}
