package tax

import (
	"context"

	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
)

type TaxServiceImpl struct {
	resolver *Resolver
}

func NewTaxService(resolver *Resolver) tax.TaxService {
	return &TaxServiceImpl{
		resolver: resolver,
	}
}

func (s *TaxServiceImpl) ListTables(ctx context.Context) ([]tax.TablePairResponse, error) {
	pairs, err := s.resolver.Pairs(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]tax.TablePairResponse, 0, len(pairs))
	for _, p := range pairs {
		responses = append(responses, tax.TablePairResponse{
			RequestedYear:  p.Year,
			Year:           p.Year,
			SocialSecurity: tax.ToTableResponse(p.SocialSecurity),
			IncomeTax:      tax.ToTableResponse(p.IncomeTax),
		})
	}
	return responses, nil
}

func (s *TaxServiceImpl) GetTables(ctx context.Context, year int) (tax.TablePairResponse, error) {
	resolution, warnings, err := s.resolver.Resolve(ctx, year)
	if err != nil {
		return tax.TablePairResponse{}, err
	}

	return tax.TablePairResponse{
		RequestedYear:  year,
		Year:           resolution.Tables.Year,
		SocialSecurity: tax.ToTableResponse(resolution.Tables.SocialSecurity),
		IncomeTax:      tax.ToTableResponse(resolution.Tables.IncomeTax),
		Warnings:       warnings,
	}, nil
}

func (s *TaxServiceImpl) PreviewWithholding(ctx context.Context, req tax.WithholdingRequest) (tax.WithholdingResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.WithholdingResponse{}, err
	}

	resolution, warnings, err := s.resolver.Resolve(ctx, req.Year)
	if err != nil {
		return tax.WithholdingResponse{}, err
	}

	table := resolution.Tables.SocialSecurity
	if tax.Kind(req.Kind) == tax.KindIncomeTax {
		table = resolution.Tables.IncomeTax
	}

	w := ComputeProgressiveWithholding(req.BaseAmount(), table, req.Dependents)
	return tax.WithholdingResponse{
		Year:               resolution.Tables.Year,
		Kind:               req.Kind,
		Value:              w.Value,
		BaseUsed:           w.BaseUsed,
		BracketLabel:       w.BracketLabel,
		DependentDeduction: w.DependentDeduction,
		Warnings:           warnings,
	}, nil
}
