package postgresql

import (
	"context"
	"fmt"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payrule"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type payRuleRepository struct {
	db *database.DB
}

func NewPayRuleRepository(db *database.DB) payrule.PayRuleRepository {
	return &payRuleRepository{db: db}
}

func (r *payRuleRepository) GetAll(ctx context.Context) ([]payrule.PayRule, error) {
	query := `
		SELECT id, user_id, name, window_start_min, window_end_min,
			   days_of_week, holiday_only, exclude_holidays, percent,
			   valid_from, valid_until, created_at, updated_at
		FROM pay_rules
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pay rules: %w", err)
	}
	defer rows.Close()

	var rules []payrule.PayRule
	for rows.Next() {
		var rule payrule.PayRule
		var days []int32
		err := rows.Scan(
			&rule.ID, &rule.UserID, &rule.Name, &rule.WindowStartMin, &rule.WindowEndMin,
			&days, &rule.HolidayOnly, &rule.ExcludeHolidays, &rule.Percent,
			&rule.ValidFrom, &rule.ValidUntil, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay rule: %w", err)
		}
		for _, d := range days {
			rule.DaysOfWeek = append(rule.DaysOfWeek, int(d))
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
