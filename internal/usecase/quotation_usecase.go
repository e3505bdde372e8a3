package usecase

//go:generate mockgen -source=quotation_usecase.go -destination=../adapter/http/handlers/mocks/mock_quotation_usecase.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultProductLookupTimeout = 3 * time.Second
	DefaultListLimit            = 50
	MaxListLimit                = 200
)

var (
	ErrQuotationNotFound      = errors.New("quotation not found")
	ErrInvalidQuotationID     = errors.New("invalid quotation id")
	ErrInvalidListFilter      = errors.New("invalid list filter")
	ErrConcurrentModification = errors.New("quotation was modified concurrently")

	ErrInvalidQuotation      = entities.ErrInvalidQuotation
	ErrInvalidState          = entities.ErrInvalidState
	ErrProductNotFound       = interfaces.ErrProductNotFound
	ErrDependencyUnavailable = interfaces.ErrDependencyUnavailable
	ErrDependencyTimeout     = interfaces.ErrDependencyTimeout
)

// CreateQuotationInput is the create command. CreatedBy falls back to "system".
type CreateQuotationInput struct {
	CustomerID string
	CreatedBy  string
	Items      []entities.UnpricedLineItem
}

// IQuotationUseCase exposes the quotation lifecycle:
//   - create (DRAFT, priced with current inventory prices)
//   - submit (DRAFT -> PENDING)
//   - approve (PENDING -> SOLD, re-priced, frozen, quotation.approved emitted)
//   - cancel (DRAFT|PENDING -> CANCELLED)
type IQuotationUseCase interface {
	CreateQuotation(ctx context.Context, in CreateQuotationInput) (entities.Quotation, error)
	SubmitQuotation(ctx context.Context, id string) (entities.Quotation, error)
	ApproveQuotation(ctx context.Context, id string) (entities.Quotation, error)
	CancelQuotation(ctx context.Context, id string) (entities.Quotation, error)
	GetQuotation(ctx context.Context, id string) (entities.Quotation, error)
	ListQuotations(ctx context.Context, filter interfaces.QuotationFilter) ([]entities.Quotation, error)
}

type QuotationUseCase struct {
	repo      interfaces.IQuotationRepository
	catalog   interfaces.IProductLookup
	pricing   interfaces.IProductLookup
	publisher interfaces.IEventPublisher
	outbox    interfaces.IOutboxRepository

	lookupTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

// NewQuotationUseCase wires the quotation service.
//
// catalog serves creation-time prices and may be cached; pricing is used to
// re-price at approval and must always reach the inventory service.
func NewQuotationUseCase(
	repo interfaces.IQuotationRepository,
	catalog interfaces.IProductLookup,
	pricing interfaces.IProductLookup,
	publisher interfaces.IEventPublisher,
	outbox interfaces.IOutboxRepository,
	lookupTimeout time.Duration,
) *QuotationUseCase {
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultProductLookupTimeout
	}
	return &QuotationUseCase{
		repo:          repo,
		catalog:       catalog,
		pricing:       pricing,
		publisher:     publisher,
		outbox:        outbox,
		lookupTimeout: lookupTimeout,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

func (u *QuotationUseCase) CreateQuotation(ctx context.Context, in CreateQuotationInput) (entities.Quotation, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return entities.Quotation{}, fmt.Errorf("%w: customer id is required", ErrInvalidQuotation)
	}
	if len(in.Items) == 0 {
		return entities.Quotation{}, fmt.Errorf("%w: at least one item is required", ErrInvalidQuotation)
	}

	items := make([]entities.UnpricedLineItem, 0, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]struct{}, len(in.Items))
	for _, it := range in.Items {
		productID := strings.TrimSpace(it.ProductID)
		if productID == "" {
			return entities.Quotation{}, fmt.Errorf("%w: product id is required", ErrInvalidQuotation)
		}
		if it.Quantity <= 0 {
			return entities.Quotation{}, fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidQuotation, productID)
		}
		items = append(items, entities.UnpricedLineItem{ProductID: productID, Quantity: it.Quantity})
		if _, ok := seen[productID]; !ok {
			seen[productID] = struct{}{}
			ids = append(ids, productID)
		}
	}

	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		createdBy = "system"
	}

	log.Printf("[quotation][usecase] create start customer_id=%s items=%d products=%d", customerID, len(items), len(ids))
	snapshots, err := u.lookupProducts(ctx, u.catalog, ids)
	if err != nil {
		log.Printf("[quotation][usecase] create product lookup failed customer_id=%s err=%v", customerID, err)
		return entities.Quotation{}, err
	}

	found := make(map[string]struct{}, len(snapshots))
	for _, s := range snapshots {
		found[s.ProductID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			log.Printf("[quotation][usecase] create product not found customer_id=%s product_id=%s", customerID, id)
			return entities.Quotation{}, &interfaces.ProductNotFoundError{ProductID: id}
		}
	}

	q, err := entities.NewQuotation(u.newID(), customerID, createdBy, items, snapshots, u.now())
	if err != nil {
		return entities.Quotation{}, err
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Printf("[quotation][usecase] create persist failed quotation_id=%s err=%v", q.ID, err)
		return entities.Quotation{}, err
	}
	log.Printf("[quotation][usecase] create success quotation_id=%s total=%s", created.ID, created.TotalAmount.StringFixed(2))
	return created, nil
}

func (u *QuotationUseCase) SubmitQuotation(ctx context.Context, id string) (entities.Quotation, error) {
	return u.transition(ctx, id, "submit", func(q *entities.Quotation, now time.Time) error {
		return q.Submit(now)
	})
}

func (u *QuotationUseCase) CancelQuotation(ctx context.Context, id string) (entities.Quotation, error) {
	return u.transition(ctx, id, "cancel", func(q *entities.Quotation, now time.Time) error {
		return q.Cancel(now)
	})
}

func (u *QuotationUseCase) transition(
	ctx context.Context,
	id string,
	action string,
	apply func(q *entities.Quotation, now time.Time) error,
) (entities.Quotation, error) {
	q, err := u.GetQuotation(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}

	expected := q.Version
	if err := apply(&q, u.now()); err != nil {
		log.Printf("[quotation][usecase] %s rejected quotation_id=%s status=%s err=%v", action, q.ID, q.Status, err)
		return entities.Quotation{}, err
	}

	updated, err := u.repo.Update(ctx, q, expected)
	if err != nil {
		if errors.Is(err, interfaces.ErrVersionConflict) {
			log.Printf("[quotation][usecase] %s version conflict quotation_id=%s version=%d", action, q.ID, expected)
			return entities.Quotation{}, fmt.Errorf("%w: %s", ErrConcurrentModification, q.ID)
		}
		return entities.Quotation{}, err
	}
	log.Printf("[quotation][usecase] %s success quotation_id=%s status=%s", action, updated.ID, updated.Status)
	return updated, nil
}

// ApproveQuotation re-prices, freezes and sells a PENDING quotation.
//
// The SOLD quotation and its outbox record are committed atomically, then the
// event is published. A publish failure is left to the outbox relay and does
// not fail the approval.
func (u *QuotationUseCase) ApproveQuotation(ctx context.Context, id string) (entities.Quotation, error) {
	q, err := u.GetQuotation(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.Status != entities.QuotationStatusPending {
		log.Printf("[quotation][usecase] approve rejected quotation_id=%s status=%s", q.ID, q.Status)
		return entities.Quotation{}, fmt.Errorf("%w: cannot approve quotation in status %s", ErrInvalidState, q.Status)
	}

	snapshots, err := u.lookupProducts(ctx, u.pricing, q.ProductIDs())
	if err != nil {
		log.Printf("[quotation][usecase] approve price lookup failed quotation_id=%s err=%v", q.ID, err)
		return entities.Quotation{}, err
	}
	prices := make(map[string]decimal.Decimal, len(snapshots))
	for _, s := range snapshots {
		prices[s.ProductID] = s.Price
	}

	expected := q.Version
	now := u.now()
	if err := q.Approve(prices, now); err != nil {
		return entities.Quotation{}, err
	}

	event, err := q.ApprovedEvent(now)
	if err != nil {
		return entities.Quotation{}, err
	}
	record, err := entities.NewApprovedOutboxRecord(event, now)
	if err != nil {
		return entities.Quotation{}, fmt.Errorf("build outbox record: %w", err)
	}

	saved, err := u.repo.SaveApproval(ctx, q, expected, record)
	if err != nil {
		if errors.Is(err, interfaces.ErrVersionConflict) {
			log.Printf("[quotation][usecase] approve version conflict quotation_id=%s version=%d", q.ID, expected)
			return entities.Quotation{}, fmt.Errorf("%w: %s", ErrConcurrentModification, q.ID)
		}
		log.Printf("[quotation][usecase] approve persist failed quotation_id=%s err=%v", q.ID, err)
		return entities.Quotation{}, err
	}
	log.Printf("[quotation][usecase] approve committed quotation_id=%s total=%s", saved.ID, saved.TotalAmount.StringFixed(2))

	u.dispatch(ctx, record)
	return saved, nil
}

func (u *QuotationUseCase) dispatch(ctx context.Context, record entities.OutboxRecord) {
	if err := u.publisher.Publish(ctx, record.Topic, record.ID, record.Payload); err != nil {
		log.Printf("[quotation][usecase] publish failed; left for outbox relay outbox_id=%s err=%v", record.ID, err)
		if mErr := u.outbox.MarkFailed(ctx, record.ID, err.Error()); mErr != nil {
			log.Printf("[quotation][usecase] outbox mark failed error outbox_id=%s err=%v", record.ID, mErr)
		}
		return
	}
	if err := u.outbox.MarkDispatched(ctx, record.ID); err != nil {
		// The relay will publish it again; consumers deduplicate.
		log.Printf("[quotation][usecase] outbox mark dispatched error outbox_id=%s err=%v", record.ID, err)
		return
	}
	log.Printf("[quotation][usecase] event published topic=%s outbox_id=%s", record.Topic, record.ID)
}

func (u *QuotationUseCase) GetQuotation(ctx context.Context, id string) (entities.Quotation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quotation{}, ErrInvalidQuotationID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}
	return q, nil
}

func (u *QuotationUseCase) ListQuotations(ctx context.Context, filter interfaces.QuotationFilter) ([]entities.Quotation, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidListFilter, filter.Status)
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidListFilter)
	}
	if filter.Limit < 0 || filter.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidListFilter, MaxListLimit)
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return nil, fmt.Errorf("%w: minAmount is greater than maxAmount", ErrInvalidListFilter)
	}
	if !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateFrom.After(filter.DateTo) {
		return nil, fmt.Errorf("%w: dateFrom is after dateTo", ErrInvalidListFilter)
	}
	return u.repo.List(ctx, filter)
}

// lookupProducts bounds the lookup with lookupTimeout and normalizes
// failures to the dependency error kinds.
func (u *QuotationUseCase) lookupProducts(ctx context.Context, lookup interfaces.IProductLookup, ids []string) ([]entities.ProductSnapshot, error) {
	lctx, cancel := context.WithTimeout(ctx, u.lookupTimeout)
	defer cancel()

	snapshots, err := lookup.GetProducts(lctx, ids)
	if err == nil {
		return snapshots, nil
	}
	switch {
	case errors.Is(err, ErrDependencyTimeout):
		return nil, err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(lctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: product lookup: %v", ErrDependencyTimeout, err)
	case errors.Is(err, ErrDependencyUnavailable):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: product lookup: %v", ErrDependencyUnavailable, err)
	}
}
