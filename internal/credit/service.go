package credit

import (
	"context"
	stdErrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	creditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/credit"
	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/internal/credit/lock"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/frahmantamala/company-management/internal/credit")

var (
	// ErrInsufficientBalance is returned by DebitCredits when the conditional
	// update matched no row.
	ErrInsufficientBalance = stdErrors.New("insufficient balance")
	ErrDuplicate           = stdErrors.New("duplicate transaction id")
)

type RepositoryAPI interface {
	RechargeExists(ctx context.Context, transactionID string) (bool, error)
	CreateRecharge(ctx context.Context, r *creditDatamodel.CreditsRecharge) error
	AddCredits(ctx context.Context, companyID string, credits int64) error
	// DebitCredits moves credits from total to used only if the remaining
	// balance covers them.
	DebitCredits(ctx context.Context, companyID string, credits int64) error
	CreateUsage(ctx context.Context, u *creditDatamodel.TransactionHistory) error
	GetBalance(ctx context.Context, companyID string) (*Balance, error)
	ListRecharges(ctx context.Context, companyID string) ([]*creditDatamodel.CreditsRecharge, error)
	ListUsages(ctx context.Context, companyID string) ([]*creditDatamodel.TransactionHistory, error)
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI, auditor audit.Writer) error) error
}

type CompanyReaderAPI interface {
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
}

type ServiceReaderAPI interface {
	GetByID(ctx context.Context, id string) (*serviceDatamodel.Service, error)
}

type AuthorizerAPI interface {
	EnsureCompanyAccess(ctx context.Context, actor *user.User, companyID string) error
}

type Service struct {
	repo                RepositoryAPI
	companies           CompanyReaderAPI
	services            ServiceReaderAPI
	authorizer          AuthorizerAPI
	locker              lock.Locker
	publisher           events.Publisher
	lowBalanceThreshold int64
	logger              *slog.Logger
}

type Option func(*Service)

func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLowBalanceThreshold enables the low balance event. Zero disables it.
func WithLowBalanceThreshold(n int64) Option {
	return func(s *Service) { s.lowBalanceThreshold = n }
}

func NewService(repo RepositoryAPI, companies CompanyReaderAPI, services ServiceReaderAPI, authorizer AuthorizerAPI, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		companies:  companies,
		services:   services,
		authorizer: authorizer,
		locker:     lock.NopLocker{},
		publisher:  events.NopPublisher{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	errInvalidCompany = errors.NewValidationError("Invalid or inactive company ID", errors.ErrCodeCompanyNotFound)
	errInvalidService = errors.NewValidationError("Invalid or inactive service ID", errors.ErrCodeServiceNotFound)
	errForeignService = errors.NewValidationError("Service is not assigned to this company", errors.ErrCodeBusinessRule)
	errDuplicateTxnID = errors.NewConflictError("Transaction ID already exists", errors.ErrCodeDuplicateTxn)
)

// Recharge records a pending purchase and credits the company in the same
// transaction.
func (s *Service) Recharge(ctx context.Context, actor *user.User, dto RechargeDTO) (result *RechargeResult, err error) {
	ctx, span := tracer.Start(ctx, "credit.Recharge")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("company.id", dto.CompanyID), attribute.Int64("credits", dto.Credits))

	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.activeCompany(ctx, dto.CompanyID); err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, dto.CompanyID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, dto.CompanyID, release)

	row := &creditDatamodel.CreditsRecharge{
		ID:            uuid.NewString(),
		CompanyID:     dto.CompanyID,
		Credits:       dto.Credits,
		AmountPaid:    dto.AmountPaid.Round(2),
		TransactionID: dto.TransactionID,
		PaymentMethod: dto.PaymentMethod,
		PaymentStatus: string(PaymentPending),
		PurchasedByID: actor.ID,
	}

	var balance *Balance
	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if dto.TransactionID != nil {
			exists, err := repo.RechargeExists(ctx, *dto.TransactionID)
			if err != nil {
				return err
			}
			if exists {
				return errDuplicateTxnID
			}
		}

		if err := repo.CreateRecharge(ctx, row); err != nil {
			return err
		}
		if err := repo.AddCredits(ctx, dto.CompanyID, dto.Credits); err != nil {
			return err
		}
		if err := auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			Table:       row.TableName(),
			RecordID:    row.ID,
			NewData:     RechargeFromDataModel(row),
			Description: "Credits recharged",
			CompanyID:   dto.CompanyID,
			UserID:      actor.ID,
		}); err != nil {
			return err
		}

		var err error
		balance, err = repo.GetBalance(ctx, dto.CompanyID)
		return err
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to recharge credits", err)
	}

	s.logger.InfoContext(ctx, "credits recharged",
		"company_id", dto.CompanyID,
		"recharge_id", row.ID,
		"credits", dto.Credits,
		"balance", balance.TotalCredits,
		"purchased_by", actor.ID)
	s.publish(ctx, events.NewCreditsRechargedEvent(dto.CompanyID, row.ID, dto.Credits, balance.TotalCredits))

	return &RechargeResult{Recharge: RechargeFromDataModel(row), Balance: balance}, nil
}

// RecordUsage debits credits for consumed services. The debit is a single
// conditional update, so a company's balance never goes negative and a
// rejected request leaves it untouched.
func (s *Service) RecordUsage(ctx context.Context, actor *user.User, dto UsageDTO) (result *UsageResult, err error) {
	ctx, span := tracer.Start(ctx, "credit.RecordUsage")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("company.id", dto.CompanyID), attribute.Int64("credits", dto.CreditsUsed))

	if err := dto.Validate(); err != nil {
		return nil, err
	}
	c, err := s.activeCompany(ctx, dto.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}
	if c.TotalCredits < dto.CreditsUsed {
		return nil, errors.ErrInsufficientCredits
	}
	if dto.ServiceID != nil {
		if err := s.checkService(ctx, *dto.ServiceID, dto.CompanyID); err != nil {
			return nil, err
		}
	}

	release, err := s.acquire(ctx, dto.CompanyID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, dto.CompanyID, release)

	row := &creditDatamodel.TransactionHistory{
		ID:               uuid.NewString(),
		CompanyID:        dto.CompanyID,
		ServiceID:        dto.ServiceID,
		CreditsUsed:      dto.CreditsUsed,
		NumberOfDaysUsed: dto.NumberOfDaysUsed,
		Description:      dto.Description,
		EnabledByID:      actor.ID,
	}

	var balance *Balance
	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.DebitCredits(ctx, dto.CompanyID, dto.CreditsUsed); err != nil {
			return err
		}
		if err := repo.CreateUsage(ctx, row); err != nil {
			return err
		}
		if err := auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			Table:       row.TableName(),
			RecordID:    row.ID,
			NewData:     UsageFromDataModel(row),
			Description: "Credits used",
			CompanyID:   dto.CompanyID,
			UserID:      actor.ID,
		}); err != nil {
			return err
		}

		var err error
		balance, err = repo.GetBalance(ctx, dto.CompanyID)
		return err
	})
	if err != nil {
		if stdErrors.Is(err, ErrInsufficientBalance) {
			s.logger.InfoContext(ctx, "credit usage rejected: insufficient balance",
				"company_id", dto.CompanyID, "credits_used", dto.CreditsUsed)
			return nil, errors.ErrInsufficientCredits
		}
		return nil, s.txError(ctx, "failed to record credit usage", err)
	}

	s.logger.InfoContext(ctx, "credits used",
		"company_id", dto.CompanyID,
		"transaction_id", row.ID,
		"credits_used", dto.CreditsUsed,
		"balance", balance.TotalCredits,
		"enabled_by", actor.ID)
	s.publish(ctx, events.NewCreditsUsedEvent(dto.CompanyID, row.ID, dto.CreditsUsed, balance.TotalCredits))
	if s.lowBalanceThreshold > 0 && balance.TotalCredits < s.lowBalanceThreshold {
		s.publish(ctx, events.NewCreditsLowBalanceEvent(dto.CompanyID, balance.TotalCredits, s.lowBalanceThreshold))
	}

	return &UsageResult{Usage: UsageFromDataModel(row), Balance: balance}, nil
}

// Ledger returns the company's recharges and usages with its balance.
func (s *Service) Ledger(ctx context.Context, actor *user.User, companyID string) (*Ledger, error) {
	if companyID == "" {
		return nil, errors.NewValidationFieldError("companyId", "Company ID is required", errors.ErrCodeValidationFailed)
	}
	c, err := s.activeCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, companyID); err != nil {
		return nil, err
	}

	recharges, err := s.repo.ListRecharges(ctx, companyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list recharges", "company_id", companyID, "error", err)
		return nil, errors.NewInternalError("failed to fetch credit transactions", err)
	}
	usages, err := s.repo.ListUsages(ctx, companyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list usages", "company_id", companyID, "error", err)
		return nil, errors.NewInternalError("failed to fetch credit transactions", err)
	}

	rechargeViews := make([]*Recharge, 0, len(recharges))
	for _, r := range recharges {
		rechargeViews = append(rechargeViews, RechargeFromDataModel(r))
	}
	usageViews := make([]*Usage, 0, len(usages))
	for _, u := range usages {
		usageViews = append(usageViews, UsageFromDataModel(u))
	}

	balance := &Balance{CompanyID: c.ID, TotalCredits: c.TotalCredits, UsedCredits: c.UsedCredits}
	return NewLedger(c.ID, c.Name, balance, rechargeViews, usageViews), nil
}

func (s *Service) activeCompany(ctx context.Context, companyID string) (*companyDatamodel.Company, error) {
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load company", err)
	}
	if c == nil || !c.IsActive {
		return nil, errInvalidCompany
	}
	return c, nil
}

func (s *Service) checkService(ctx context.Context, serviceID, companyID string) error {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return errors.NewInternalError("failed to load service", err)
	}
	if svc == nil || !svc.IsActive {
		return errInvalidService
	}
	if svc.CompanyID == nil || *svc.CompanyID != companyID {
		return errForeignService
	}
	return nil
}

func (s *Service) acquire(ctx context.Context, companyID string) (lock.ReleaseFunc, error) {
	release, err := s.locker.Acquire(ctx, lock.CompanyKey(companyID))
	if err != nil {
		if stdErrors.Is(err, lock.ErrNotObtained) {
			s.logger.WarnContext(ctx, "credit ledger busy", "company_id", companyID)
			return nil, errors.ErrLedgerBusy
		}
		s.logger.ErrorContext(ctx, "failed to lock credit ledger", "company_id", companyID, "error", err)
		return nil, errors.NewInternalError("failed to lock credit ledger", err)
	}
	return release, nil
}

func (s *Service) release(ctx context.Context, companyID string, release lock.ReleaseFunc) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.WarnContext(ctx, "failed to release credit ledger lock", "company_id", companyID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish credit event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) txError(ctx context.Context, msg string, err error) error {
	if stdErrors.Is(err, ErrDuplicate) {
		return errDuplicateTxnID
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, msg, "error", err)
	return errors.NewInternalError(msg, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
