package payroll

import (
	"context"
	"fmt"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/contract"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/holiday"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payroll"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payrule"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/user"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"golang.org/x/sync/errgroup"
)

// Service loads one month of inputs through the repositories and hands them
// to the pure calculator.
type Service struct {
	userRepo     user.UserRepository
	contractRepo contract.ContractRepository
	ruleRepo     payrule.PayRuleRepository
	shiftRepo    shift.ShiftRepository
	holidayRepo  holiday.HolidayRepository
	calc         *Calculator
	cal          timeutil.Calendar
}

func NewService(
	userRepo user.UserRepository,
	contractRepo contract.ContractRepository,
	ruleRepo payrule.PayRuleRepository,
	shiftRepo shift.ShiftRepository,
	holidayRepo holiday.HolidayRepository,
	cal timeutil.Calendar,
) *Service {
	return &Service{
		userRepo:     userRepo,
		contractRepo: contractRepo,
		ruleRepo:     ruleRepo,
		shiftRepo:    shiftRepo,
		holidayRepo:  holidayRepo,
		calc:         NewCalculator(cal),
		cal:          cal,
	}
}

// ComputeMonth computes the payroll rows for (year, monthIndex) from the
// currently persisted state. monthIndex is zero-based.
func (s *Service) ComputeMonth(ctx context.Context, year, monthIndex int) ([]payroll.Row, error) {
	if err := kpi.ValidatePeriod(year, monthIndex); err != nil {
		return nil, err
	}

	in, err := s.loadInputs(ctx, year, monthIndex)
	if err != nil {
		return nil, err
	}

	return s.calc.ComputeRows(year, monthIndex, in), nil
}

// loadInputs fetches the five month-scoped input sets in parallel; each is
// an indexed range read.
func (s *Service) loadInputs(ctx context.Context, year, monthIndex int) (Inputs, error) {
	from, to := s.cal.MonthBounds(year, monthIndex)

	var in Inputs
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.userRepo.GetActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		in.Users = users
		return nil
	})
	g.Go(func() error {
		shifts, err := s.shiftRepo.GetOverlapping(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load shifts: %w", err)
		}
		in.Shifts = shifts
		return nil
	})
	g.Go(func() error {
		contracts, err := s.contractRepo.GetOverlapping(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load contracts: %w", err)
		}
		in.Contracts = contracts
		return nil
	})
	g.Go(func() error {
		rules, err := s.ruleRepo.GetAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load pay rules: %w", err)
		}
		in.Rules = rules
		return nil
	})
	g.Go(func() error {
		holidays, err := s.holidayRepo.GetBetween(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load holidays: %w", err)
		}
		in.Holidays = holidays
		return nil
	})

	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
