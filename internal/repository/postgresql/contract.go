package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/contract"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type contractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `
	id, user_id, valid_from, valid_until, hourly_rate_cents,
	salary_monthly_cents, weekly_hours, vacation_days_annual,
	vacation_bonus_percent, christmas_bonus_percent, created_at, updated_at
`

func (r *contractRepository) GetOverlapping(ctx context.Context, from, to time.Time) (map[string][]contract.Contract, error) {
	// valid_from ASC ordering is load-bearing: the resolver's last-match-wins
	// tie-break turns it into most-recent-contract-wins.
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE valid_from <= $2
		  AND (valid_until IS NULL OR valid_until >= $1)
		ORDER BY user_id, valid_from, id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping contracts: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string][]contract.Contract)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		byUser[c.UserID] = append(byUser[c.UserID], c)
	}

	return byUser, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (contract.Contract, error) {
	var c contract.Contract
	err := row.Scan(
		&c.ID, &c.UserID, &c.ValidFrom, &c.ValidUntil, &c.HourlyRateCents,
		&c.SalaryMonthlyCents, &c.WeeklyHours, &c.VacationDaysAnnual,
		&c.VacationBonusPercent, &c.ChristmasBonusPercent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to scan contract: %w", err)
	}
	return c, nil
}
