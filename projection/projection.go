/*
Package projection simulates loan balances forward, one day at a time.

PURPOSE:
  Answers "what will these loans look like through this date range?" —
  the forward-looking view reconciliation screens show next to a proposed
  repayment. Each simulated day resolves that day's late-fee schedule,
  accrues fees on overdue loans, and optionally applies a scheduled
  repayment through the allocation engine.

FEE ACCRUAL CONVENTION:
  The schedule's fee percentage is treated as an annualized rate for the
  days-late band: a loan daysLate into band {31+, 10} accrues
  principal * 10% / 365 in fees for that day. Days not covered by any
  contract window accrue nothing and are reported as gaps.

SEQUENCING:
  The simulation is inherently sequential: each day's ending balances feed
  the next day's starting balances. Do not parallelize across days.

SEE ALSO:
  - latefee: per-day window resolution
  - allocation: proposal generation for scheduled repayments
*/
package projection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/latefee"
)

var daysPerYear = decimal.NewFromInt(365)

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// ScheduledPayment is a repayment the simulation applies on a given day.
// Only the auto-computed options make sense here; a CustomAmount split is
// hand-specified and cannot be simulated.
type ScheduledPayment struct {
	Date   finance.Date
	Option allocation.PaymentOption
}

// Input carries the starting state for a projection run.
type Input struct {
	Loans    []allocation.LoanBalance
	Windows  []latefee.ScheduleWindow
	Range    finance.DateRange
	Payments []ScheduledPayment
}

// DayResult is one simulated day.
type DayResult struct {
	Date        finance.Date
	FeesAccrued finance.Money

	// ScheduleGap is true when no contract window covered this day.
	ScheduleGap bool

	// Payment is set when a scheduled repayment was applied this day.
	Payment *allocation.Proposal
}

// Result is the full simulation outcome.
type Result struct {
	Days          []DayResult
	TotalFees     finance.Money
	TotalPaid     finance.Money
	FinalBalances []allocation.LoanBalance
}

// =============================================================================
// PROJECTOR
// =============================================================================

// Projector runs day-by-day forward simulations. Stateless; safe for
// concurrent use across independent inputs.
type Projector struct {
	Engine *allocation.Engine
}

func NewProjector() *Projector {
	return &Projector{Engine: &allocation.Engine{}}
}

// Run simulates the range. Loans are copied; the caller's slice is never
// mutated.
func (p *Projector) Run(in Input) (*Result, error) {
	if !in.Range.IsValid() {
		return nil, latefee.ErrInvalidRange
	}
	for _, sp := range in.Payments {
		if sp.Option != allocation.PayInFull && sp.Option != allocation.PayMinimumDue {
			return nil, fmt.Errorf("cannot simulate %q payments", sp.Option)
		}
	}

	balances := make([]allocation.LoanBalance, len(in.Loans))
	copy(balances, in.Loans)

	paymentsByDate := make(map[finance.Date]allocation.PaymentOption, len(in.Payments))
	for _, sp := range in.Payments {
		paymentsByDate[sp.Date] = sp.Option
	}

	resolutions, err := latefee.ResolveRange(in.Windows, in.Range.Start, in.Range.End)
	if err != nil {
		return nil, err
	}

	result := &Result{TotalFees: finance.Zero, TotalPaid: finance.Zero}

	for _, res := range resolutions {
		day := DayResult{Date: res.Date, FeesAccrued: finance.Zero}

		switch {
		case errors.Is(res.Err, latefee.ErrScheduleNotFound):
			// Contract gap: a defined condition, no accrual.
			day.ScheduleGap = true
		case res.Err != nil:
			// Overlapping windows or an inverted range are data-integrity
			// problems; stop rather than simulate on bad history.
			return nil, res.Err
		default:
			for i := range balances {
				accrued := dailyFee(balances[i], res.Window.Schedule, res.Date)
				if accrued.IsZero() {
					continue
				}
				balances[i].OutstandingFees = balances[i].OutstandingFees.Add(accrued)
				day.FeesAccrued = day.FeesAccrued.Add(accrued)
			}
			result.TotalFees = result.TotalFees.Add(day.FeesAccrued)
		}

		if option, ok := paymentsByDate[res.Date]; ok {
			proposal, err := p.engine().Propose(allocation.ProposalInput{
				Option: option,
				Loans:  balances,
			})
			if err != nil {
				return nil, err
			}
			for i, snap := range proposal.Snapshots {
				balances[i] = snap.After
			}
			result.TotalPaid = result.TotalPaid.Add(proposal.TotalAmount)
			day.Payment = proposal
		}

		result.Days = append(result.Days, day)
	}

	result.FinalBalances = balances
	return result, nil
}

func (p *Projector) engine() *allocation.Engine {
	if eng := p.Engine; eng != nil {
		return eng
	}
	return &allocation.Engine{}
}

// dailyFee computes one day's accrual for a loan: zero unless the loan is
// past maturity and the schedule has a band for its days late.
func dailyFee(lb allocation.LoanBalance, schedule latefee.Schedule, day finance.Date) finance.Money {
	daysLate := finance.DaysBetween(lb.MaturityDate, day)
	if daysLate <= 0 {
		return finance.Zero
	}
	band, ok := schedule.BandFor(daysLate)
	if !ok {
		return finance.Zero
	}
	rate := band.Fee.Div(decimal.NewFromInt(100)).Div(daysPerYear)
	return lb.OutstandingPrincipal.Mul(rate)
}
