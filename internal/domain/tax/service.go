package tax

import "context"

type TaxService interface {
	ListTables(ctx context.Context) ([]TablePairResponse, error)
	GetTables(ctx context.Context, year int) (TablePairResponse, error)
	PreviewWithholding(ctx context.Context, req WithholdingRequest) (WithholdingResponse, error)
}
