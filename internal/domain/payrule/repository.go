package payrule

import "context"

type PayRuleRepository interface {
	// GetAll returns every pay rule ordered by id. Validity ranges are
	// evaluated per day by the calculator, not filtered here.
	GetAll(ctx context.Context) ([]PayRule, error)
}
