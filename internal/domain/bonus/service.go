package bonus

import "context"

type BonusService interface {
	Preview(ctx context.Context, req CalculateBonusRequest) (BonusResponse, error)
	Save(ctx context.Context, req CalculateBonusRequest) (BonusResponse, error)
	Get(ctx context.Context, id string) (BonusResponse, error)
	List(ctx context.Context, filter BonusFilter) (ListBonusResponse, error)
	UpdateTwelfths(ctx context.Context, req UpdateTwelfthsRequest) (BonusResponse, error)

	// GetRecord returns the stored record for document rendering.
	GetRecord(ctx context.Context, id string) (Record, error)
}
