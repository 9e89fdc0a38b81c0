package payroll

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles salary accruals, revenue logs and distributions
type Service struct {
	accrualRepo    payroll.AccrualRepository
	revenueRepo    payroll.RevenueRepository
	payoutRepo     payroll.PayoutRepository
	txScope        TransactionScope
	policy         payroll.AllocationPolicy
	now            func() time.Time
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new payroll Service
func NewService(
	accrualRepo payroll.AccrualRepository,
	revenueRepo payroll.RevenueRepository,
	payoutRepo payroll.PayoutRepository,
	txScope TransactionScope,
	policy payroll.AllocationPolicy,
	logger *zap.Logger,
) *Service {
	if policy == nil {
		policy = payroll.SingleOldestPolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		accrualRepo: accrualRepo,
		revenueRepo: revenueRepo,
		payoutRepo:  payoutRepo,
		txScope:     txScope,
		policy:      policy,
		now:         time.Now,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for activity logging
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateAccrual records a monthly salary owed to a user
func (s *Service) CreateAccrual(ctx context.Context, req CreateAccrualRequest) (*AccrualResponse, error) {
	month, err := valueobject.ParseYearMonth(req.Month)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "month must be in YYYY-MM format")
	}

	accrual, err := payroll.NewSalaryAccrual(req.UserID, month, req.Amount, req.Notes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.accrualRepo.Create(ctx, accrual); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An accrual for this user and month already exists")
		}
		return nil, err
	}
	s.publish(ctx, accrual)

	resp := ToAccrualResponse(accrual)
	return &resp, nil
}

// ListAccruals lists accruals, optionally for one user and status
func (s *Service) ListAccruals(ctx context.Context, filter AccrualListFilter) (*shared.Paginated[AccrualResponse], error) {
	domainFilter := payroll.AccrualFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "month", OrderDir: "asc"},
	}
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "user_id must be a UUID")
		}
		domainFilter.UserID = &userID
	}
	if filter.Status != "" {
		status := payroll.AccrualStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown accrual status")
		}
		domainFilter.Status = &status
	}

	accruals, total, err := s.accrualRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]AccrualResponse, len(accruals))
	for i := range accruals {
		items[i] = ToAccrualResponse(&accruals[i])
	}
	page := shared.NewPaginated(items, total, pageOf(filter.Page), domainFilter.Limit())
	return &page, nil
}

// RecordRevenue logs money received
func (s *Service) RecordRevenue(ctx context.Context, recordedBy uuid.UUID, req RecordRevenueRequest) (*RevenueResponse, error) {
	receivedOn, err := valueobject.ParseCivilDate(req.ReceivedOn)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "received_on must be a date in YYYY-MM-DD format")
	}

	revenue, err := payroll.NewRevenueLog(req.Source, req.Amount, receivedOn, req.Notes, recordedBy, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.revenueRepo.Create(ctx, revenue); err != nil {
		return nil, err
	}
	s.publish(ctx, revenue)

	resp := ToRevenueResponse(revenue)
	return &resp, nil
}

// ListRevenue lists revenue logs, newest first
func (s *Service) ListRevenue(ctx context.Context, query PageQuery) (*shared.Paginated[RevenueResponse], error) {
	filter := shared.Filter{Page: query.Page, PageSize: query.PageSize, OrderBy: "received_on", OrderDir: "desc"}
	revenues, total, err := s.revenueRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RevenueResponse, len(revenues))
	for i := range revenues {
		items[i] = ToRevenueResponse(&revenues[i])
	}
	page := shared.NewPaginated(items, total, pageOf(query.Page), filter.Limit())
	return &page, nil
}

// GetRevenue returns a revenue log with its payouts and distributed total
func (s *Service) GetRevenue(ctx context.Context, id uuid.UUID) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payouts, err := s.payoutRepo.FindByRevenue(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToRevenueResponse(revenue)
	distributed := decimal.Zero
	resp.Payouts = make([]PayoutResponse, len(payouts))
	for i := range payouts {
		resp.Payouts[i] = ToPayoutResponse(&payouts[i])
		distributed = distributed.Add(payouts[i].Amount)
	}
	resp.Distributed = &distributed
	return &resp, nil
}

// ListPayouts lists a user's payouts, newest first
func (s *Service) ListPayouts(ctx context.Context, userID uuid.UUID, query PageQuery) (*shared.Paginated[PayoutResponse], error) {
	filter := shared.Filter{Page: query.Page, PageSize: query.PageSize, OrderBy: "paid_at", OrderDir: "desc"}
	payouts, total, err := s.payoutRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		items[i] = ToPayoutResponse(&payouts[i])
	}
	page := shared.NewPaginated(items, total, pageOf(query.Page), filter.Limit())
	return &page, nil
}

// Distribute pays users out of a revenue log. Users are processed in id
// order, each in its own transaction, using the configured allocation
// policy. A user without an unsettled accrual is reported as skipped. The
// requested total plus what the revenue already funded may not exceed the
// revenue amount. Each user's transaction holds the revenue row lock and
// checks the cap again, so a user that would overdraw it fails with
// ALLOCATION_EXCEEDS_REVENUE.
func (s *Service) Distribute(ctx context.Context, revenueID uuid.UUID, req DistributeRequest) (_ *DistributionResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "distribute")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRevenueID, revenueID.String(),
		telemetry.SpanAttrUsers, len(req.Allocations),
	)

	revenue, err := s.revenueRepo.FindByID(ctx, revenueID)
	if err != nil {
		return nil, err
	}

	allocations, total, err := normalizeAllocations(req.Allocations)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, total.String())

	alreadyPaid, err := s.payoutRepo.SumByRevenue(ctx, revenueID)
	if err != nil {
		return nil, err
	}
	if alreadyPaid.Add(total).GreaterThan(revenue.Amount) {
		return nil, payroll.ErrAllocationExceedsRevenue
	}

	result := &DistributionResult{
		RevenueID:      revenueID,
		Policy:         s.policy.Name(),
		TotalRequested: total,
		TotalPaid:      decimal.Zero,
		Users:          make([]UserDistribution, 0, len(allocations)),
	}

	for _, alloc := range allocations {
		outcome := s.distributeToUser(ctx, revenueID, alloc, req.Note)
		telemetry.AddEvent(span, "user_distributed",
			telemetry.SpanAttrUserID, alloc.UserID.String(),
			"outcome", outcome.Outcome,
		)
		if outcome.Outcome == OutcomePaid {
			for _, p := range outcome.Payouts {
				result.TotalPaid = result.TotalPaid.Add(p.Amount)
			}
		}
		result.Users = append(result.Users, outcome)
	}

	s.logger.Info("Distributed revenue",
		zap.String("revenue_id", revenueID.String()),
		zap.String("policy", result.Policy),
		zap.String("total_paid", result.TotalPaid.String()),
		zap.Int("users", len(result.Users)),
	)
	return result, nil
}

func (s *Service) distributeToUser(ctx context.Context, revenueID uuid.UUID, alloc UserAllocation, note string) UserDistribution {
	outcome := UserDistribution{UserID: alloc.UserID, Requested: alloc.Amount}
	now := s.now()

	var touched []*payroll.SalaryAccrual
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		touched = nil
		outcome.Payouts = nil

		revenue, err := repos.Revenue().FindByIDForUpdate(ctx, revenueID)
		if err != nil {
			return err
		}

		open, err := repos.Accruals().FindOpenByUser(ctx, alloc.UserID)
		if err != nil {
			return err
		}
		plan := s.policy.Allocate(alloc.Amount, open)
		if len(plan) == 0 {
			return nil
		}

		// Re-checked under the revenue lock; a concurrent distribution may
		// have paid out since the request was admitted.
		paid, err := repos.Payouts().SumByRevenue(ctx, revenueID)
		if err != nil {
			return err
		}
		planned := decimal.Zero
		for _, part := range plan {
			planned = planned.Add(part.Amount)
		}
		if paid.Add(planned).GreaterThan(revenue.Amount) {
			return payroll.ErrAllocationExceedsRevenue
		}

		byID := make(map[uuid.UUID]*payroll.SalaryAccrual, len(open))
		for i := range open {
			byID[open[i].ID] = &open[i]
		}

		for _, part := range plan {
			accrual, ok := byID[part.AccrualID]
			if !ok {
				return shared.NewDomainError("ALLOCATION_TARGET_MISSING", "Allocation refers to an unknown accrual")
			}
			if err := accrual.ApplyPayment(part.Amount, now); err != nil {
				return err
			}
			if err := repos.Accruals().SaveWithLock(ctx, accrual); err != nil {
				return err
			}
			payout := payroll.NewPayout(accrual, revenueID, part.Amount, note, now)
			if err := repos.Payouts().Create(ctx, payout); err != nil {
				return err
			}
			outcome.Payouts = append(outcome.Payouts, ToPayoutResponse(payout))
			touched = append(touched, accrual)
		}
		return nil
	})

	if err != nil {
		outcome.Outcome = OutcomeFailed
		outcome.Payouts = nil
		outcome.Error = err.Error()
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			outcome.ErrorCode = domainErr.Code
		}
		s.logger.Warn("Salary allocation failed",
			zap.String("revenue_id", revenueID.String()),
			zap.String("user_id", alloc.UserID.String()),
			zap.Error(err),
		)
		return outcome
	}

	if len(touched) == 0 {
		outcome.Outcome = OutcomeSkipped
		return outcome
	}

	outcome.Outcome = OutcomePaid
	for _, accrual := range touched {
		outcome.Accruals = append(outcome.Accruals, ToAccrualResponse(accrual))
		s.publish(ctx, accrual)
	}
	return outcome
}

// normalizeAllocations validates amounts, rejects duplicate users and sorts by user id
func normalizeAllocations(in []UserAllocation) ([]UserAllocation, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, shared.NewDomainError("INVALID_INPUT", "At least one allocation is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]UserAllocation, 0, len(in))
	total := decimal.Zero
	for _, a := range in {
		if a.UserID == uuid.Nil {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Allocation user_id cannot be empty")
		}
		if !a.Amount.IsPositive() {
			return nil, decimal.Zero, payroll.ErrInvalidAmount
		}
		if _, dup := seen[a.UserID]; dup {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Each user may appear only once per distribution")
		}
		seen[a.UserID] = struct{}{}
		out = append(out, a)
		total = total.Add(a.Amount)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out, total, nil
}

func (s *Service) publish(ctx context.Context, aggregate shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, aggregate); err != nil {
		s.logger.Warn("Failed to publish payroll events", zap.Error(err))
	}
}

func pageOf(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
