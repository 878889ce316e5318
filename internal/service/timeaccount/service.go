package timeaccount

import (
	"context"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/contract"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/timeaccount"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/user"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/vacation"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"golang.org/x/sync/errgroup"
)

// Service loads the year-to-date inputs for the time account computation.
// Year totals need the whole year up to the target month, and the vacation
// carry-over additionally needs the prior year's vacation days and contracts.
type Service struct {
	userRepo     user.UserRepository
	contractRepo contract.ContractRepository
	shiftRepo    shift.ShiftRepository
	vacationRepo vacation.VacationRepository
	calc         *Calculator
	cal          timeutil.Calendar
}

func NewService(
	userRepo user.UserRepository,
	contractRepo contract.ContractRepository,
	shiftRepo shift.ShiftRepository,
	vacationRepo vacation.VacationRepository,
	cal timeutil.Calendar,
) *Service {
	return &Service{
		userRepo:     userRepo,
		contractRepo: contractRepo,
		shiftRepo:    shiftRepo,
		vacationRepo: vacationRepo,
		calc:         NewCalculator(cal),
		cal:          cal,
	}
}

// ComputeMonth computes the time account entries for (year, monthIndex) from
// the currently persisted state. monthIndex is zero-based.
func (s *Service) ComputeMonth(ctx context.Context, year, monthIndex int) ([]timeaccount.Entry, error) {
	if err := kpi.ValidatePeriod(year, monthIndex); err != nil {
		return nil, err
	}

	in, err := s.loadInputs(ctx, year, monthIndex)
	if err != nil {
		return nil, err
	}

	return s.calc.ComputeEntries(year, monthIndex, in), nil
}

func (s *Service) loadInputs(ctx context.Context, year, monthIndex int) (Inputs, error) {
	loc := s.cal.Location()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	priorYearStart := time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc)
	_, monthEnd := s.cal.MonthBounds(year, monthIndex)

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
		contracts, err := s.contractRepo.GetOverlapping(gCtx, priorYearStart, monthEnd)
		if err != nil {
			return fmt.Errorf("failed to load contracts: %w", err)
		}
		in.Contracts = contracts
		return nil
	})
	g.Go(func() error {
		shifts, err := s.shiftRepo.GetOverlapping(gCtx, yearStart, monthEnd)
		if err != nil {
			return fmt.Errorf("failed to load shifts: %w", err)
		}
		in.Shifts = shifts
		return nil
	})
	g.Go(func() error {
		days, err := s.vacationRepo.GetBetween(gCtx, priorYearStart, monthEnd)
		if err != nil {
			return fmt.Errorf("failed to load vacation days: %w", err)
		}
		in.VacationDays = days
		return nil
	})

	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
