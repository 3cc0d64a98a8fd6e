package service

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/apperr"
    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/queue"
    "github.com/iliyamo/tailor-api/internal/repository"
)

const (
    DefaultPage  = 1
    DefaultLimit = 10
    MaxLimit     = 100
)

type CustomerStore interface {
    Create(ctx context.Context, c *model.Customer) error
    CreateWithMeasurements(ctx context.Context, c *model.Customer, ms []*model.Measurement) error
    GetByID(ctx context.Context, id string) (*model.Customer, error)
    List(ctx context.Context, q repository.CustomerQuery) ([]*model.Customer, int64, error)
    Update(ctx context.Context, c *model.Customer) error
    Delete(ctx context.Context, id string) error
}

type MeasurementStore interface {
    Create(ctx context.Context, m *model.Measurement) error
    GetByID(ctx context.Context, id string) (*model.Measurement, error)
    ListByCustomer(ctx context.Context, customerID string) ([]*model.Measurement, error)
    Update(ctx context.Context, m *model.Measurement) error
    Delete(ctx context.Context, id string) error
}

// CustomerInput is a validated customer creation request.
type CustomerInput struct {
    FullName string
    Email    *string
    Phone    *string
    Gender   *string
    Address  *string
}

// MeasurementInput is a validated measurement creation request.
type MeasurementInput struct {
    Type  string
    Data  map[string]any
    Notes *string
}

// ListQuery selects a page of customers.  Zero or negative values take the
// defaults and Limit is capped at MaxLimit.
type ListQuery struct {
    Page   int
    Limit  int
    Search string
}

func (q ListQuery) normalize() ListQuery {
    if q.Page < 1 {
        q.Page = DefaultPage
    }
    if q.Limit < 1 {
        q.Limit = DefaultLimit
    }
    if q.Limit > MaxLimit {
        q.Limit = MaxLimit
    }
    return q
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
    Page       int   `json:"page"`
    Limit      int   `json:"limit"`
    Total      int64 `json:"total"`
    TotalPages int   `json:"totalPages"`
}

// CustomerPage is one page of an owner's customers.
type CustomerPage struct {
    Customers  []*model.Customer
    Pagination Pagination
}

// CustomerService manages customers and their measurements.  Every
// single-record operation resolves the record first and then compares its
// owner with the caller: a missing record is NotFound, someone else's record
// is Forbidden.
type CustomerService struct {
    users        UserStore
    customers    CustomerStore
    measurements MeasurementStore
    events       EventPublisher
    now          func() time.Time
}

func NewCustomerService(users UserStore, customers CustomerStore, measurements MeasurementStore, events EventPublisher) *CustomerService {
    if events == nil {
        events = NoopPublisher{}
    }
    return &CustomerService{
        users:        users,
        customers:    customers,
        measurements: measurements,
        events:       events,
        now:          func() time.Time { return time.Now().UTC() },
    }
}

func (s *CustomerService) newCustomer(ownerID string, in CustomerInput) *model.Customer {
    now := s.now()
    return &model.Customer{
        ID:        uuid.NewString(),
        OwnerID:   ownerID,
        FullName:  in.FullName,
        Email:     in.Email,
        Phone:     in.Phone,
        Gender:    in.Gender,
        Address:   in.Address,
        CreatedAt: now,
        UpdatedAt: now,
    }
}

func (s *CustomerService) newMeasurement(customerID string, in MeasurementInput) *model.Measurement {
    now := s.now()
    data := in.Data
    if data == nil {
        data = map[string]any{}
    }
    return &model.Measurement{
        ID:         uuid.NewString(),
        CustomerID: customerID,
        Type:       in.Type,
        Data:       data,
        Notes:      in.Notes,
        CreatedAt:  now,
        UpdatedAt:  now,
    }
}

func (s *CustomerService) requireOwner(ctx context.Context, ownerID string) error {
    _, err := s.users.GetByID(ctx, ownerID)
    if errors.Is(err, repository.ErrUserNotFound) {
        return apperr.NotFound("User not found")
    }
    if err != nil {
        return apperr.Internal(err)
    }
    return nil
}

// ownedCustomer loads a customer and checks that ownerID owns it.
func (s *CustomerService) ownedCustomer(ctx context.Context, ownerID, id string) (*model.Customer, error) {
    c, err := s.customers.GetByID(ctx, id)
    if errors.Is(err, repository.ErrCustomerNotFound) {
        return nil, apperr.NotFound("Customer not found")
    }
    if err != nil {
        return nil, apperr.Internal(err)
    }
    if c.OwnerID != ownerID {
        return nil, apperr.Forbidden("You do not have access to this customer")
    }
    return c, nil
}

// ownedMeasurement resolves a measurement, then its parent customer, then
// the owner.
func (s *CustomerService) ownedMeasurement(ctx context.Context, ownerID, id string) (*model.Measurement, error) {
    m, err := s.measurements.GetByID(ctx, id)
    if errors.Is(err, repository.ErrMeasurementNotFound) {
        return nil, apperr.NotFound("Measurement not found")
    }
    if err != nil {
        return nil, apperr.Internal(err)
    }
    c, err := s.customers.GetByID(ctx, m.CustomerID)
    if errors.Is(err, repository.ErrCustomerNotFound) {
        return nil, apperr.NotFound("Measurement not found")
    }
    if err != nil {
        return nil, apperr.Internal(err)
    }
    if c.OwnerID != ownerID {
        return nil, apperr.Forbidden("You do not have access to this measurement")
    }
    return m, nil
}

func (s *CustomerService) publish(ctx context.Context, typ, ownerID, subjectID string) {
    s.events.Publish(ctx, queue.AuditEvent{Type: typ, UserID: ownerID, SubjectID: subjectID, At: s.now()})
}

// CreateCustomer adds a customer for ownerID.  Customers may share a name.
func (s *CustomerService) CreateCustomer(ctx context.Context, ownerID string, in CustomerInput) (*model.Customer, error) {
    if err := s.requireOwner(ctx, ownerID); err != nil {
        return nil, err
    }
    c := s.newCustomer(ownerID, in)
    if err := s.customers.Create(ctx, c); err != nil {
        return nil, apperr.Internal(err)
    }
    log.Debug().Str("user_id", ownerID).Str("customer_id", c.ID).Msg("customer created")
    s.publish(ctx, queue.EventCustomerCreated, ownerID, c.ID)
    return c, nil
}

// CreateCustomerWithMeasurements adds a customer and its initial
// measurements atomically.
func (s *CustomerService) CreateCustomerWithMeasurements(ctx context.Context, ownerID string, in CustomerInput, ms []MeasurementInput) (*model.Customer, []*model.Measurement, error) {
    if err := s.requireOwner(ctx, ownerID); err != nil {
        return nil, nil, err
    }
    c := s.newCustomer(ownerID, in)
    out := make([]*model.Measurement, 0, len(ms))
    for _, mi := range ms {
        out = append(out, s.newMeasurement(c.ID, mi))
    }
    if err := s.customers.CreateWithMeasurements(ctx, c, out); err != nil {
        return nil, nil, apperr.Internal(err)
    }
    s.publish(ctx, queue.EventCustomerCreated, ownerID, c.ID)
    for _, m := range out {
        s.publish(ctx, queue.EventMeasurementAdded, ownerID, m.ID)
    }
    return c, out, nil
}

// ListCustomers returns one page of the owner's customers, newest first.
func (s *CustomerService) ListCustomers(ctx context.Context, ownerID string, q ListQuery) (*CustomerPage, error) {
    q = q.normalize()
    items, total, err := s.customers.List(ctx, repository.CustomerQuery{
        OwnerID: ownerID,
        Search:  q.Search,
        Limit:   q.Limit,
        Offset:  (q.Page - 1) * q.Limit,
    })
    if err != nil {
        return nil, apperr.Internal(err)
    }
    return &CustomerPage{
        Customers: items,
        Pagination: Pagination{
            Page:       q.Page,
            Limit:      q.Limit,
            Total:      total,
            TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
        },
    }, nil
}

// GetCustomer returns a customer with all of its measurements.
func (s *CustomerService) GetCustomer(ctx context.Context, ownerID, id string) (*model.Customer, []*model.Measurement, error) {
    c, err := s.ownedCustomer(ctx, ownerID, id)
    if err != nil {
        return nil, nil, err
    }
    ms, err := s.measurements.ListByCustomer(ctx, c.ID)
    if err != nil {
        return nil, nil, apperr.Internal(err)
    }
    return c, ms, nil
}

// UpdateCustomer applies a partial update.
func (s *CustomerService) UpdateCustomer(ctx context.Context, ownerID, id string, patch model.CustomerPatch) (*model.Customer, error) {
    c, err := s.ownedCustomer(ctx, ownerID, id)
    if err != nil {
        return nil, err
    }
    patch.Apply(c)
    c.UpdatedAt = s.now()
    if err := s.customers.Update(ctx, c); err != nil {
        if errors.Is(err, repository.ErrCustomerNotFound) {
            return nil, apperr.NotFound("Customer not found")
        }
        return nil, apperr.Internal(err)
    }
    s.publish(ctx, queue.EventCustomerUpdated, ownerID, c.ID)
    return c, nil
}

// DeleteCustomer removes a customer and, by cascade, its measurements.
func (s *CustomerService) DeleteCustomer(ctx context.Context, ownerID, id string) error {
    c, err := s.ownedCustomer(ctx, ownerID, id)
    if err != nil {
        return err
    }
    if err := s.customers.Delete(ctx, c.ID); err != nil {
        if errors.Is(err, repository.ErrCustomerNotFound) {
            return apperr.NotFound("Customer not found")
        }
        return apperr.Internal(err)
    }
    log.Debug().Str("user_id", ownerID).Str("customer_id", c.ID).Msg("customer deleted")
    s.publish(ctx, queue.EventCustomerDeleted, ownerID, c.ID)
    return nil
}

// AddMeasurement records a measurement for one of the owner's customers.
func (s *CustomerService) AddMeasurement(ctx context.Context, ownerID, customerID string, in MeasurementInput) (*model.Measurement, error) {
    c, err := s.ownedCustomer(ctx, ownerID, customerID)
    if err != nil {
        return nil, err
    }
    m := s.newMeasurement(c.ID, in)
    if err := s.measurements.Create(ctx, m); err != nil {
        return nil, apperr.Internal(err)
    }
    s.publish(ctx, queue.EventMeasurementAdded, ownerID, m.ID)
    return m, nil
}

// ListMeasurements returns every measurement of one of the owner's customers.
func (s *CustomerService) ListMeasurements(ctx context.Context, ownerID, customerID string) ([]*model.Measurement, error) {
    c, err := s.ownedCustomer(ctx, ownerID, customerID)
    if err != nil {
        return nil, err
    }
    ms, err := s.measurements.ListByCustomer(ctx, c.ID)
    if err != nil {
        return nil, apperr.Internal(err)
    }
    return ms, nil
}

func (s *CustomerService) GetMeasurement(ctx context.Context, ownerID, id string) (*model.Measurement, error) {
    return s.ownedMeasurement(ctx, ownerID, id)
}

func (s *CustomerService) UpdateMeasurement(ctx context.Context, ownerID, id string, patch model.MeasurementPatch) (*model.Measurement, error) {
    m, err := s.ownedMeasurement(ctx, ownerID, id)
    if err != nil {
        return nil, err
    }
    patch.Apply(m)
    m.UpdatedAt = s.now()
    if err := s.measurements.Update(ctx, m); err != nil {
        if errors.Is(err, repository.ErrMeasurementNotFound) {
            return nil, apperr.NotFound("Measurement not found")
        }
        return nil, apperr.Internal(err)
    }
    s.publish(ctx, queue.EventMeasurementUpdated, ownerID, m.ID)
    return m, nil
}

func (s *CustomerService) DeleteMeasurement(ctx context.Context, ownerID, id string) error {
    m, err := s.ownedMeasurement(ctx, ownerID, id)
    if err != nil {
        return err
    }
    if err := s.measurements.Delete(ctx, m.ID); err != nil {
        if errors.Is(err, repository.ErrMeasurementNotFound) {
            return apperr.NotFound("Measurement not found")
        }
        return apperr.Internal(err)
    }
    s.publish(ctx, queue.EventMeasurementDeleted, ownerID, m.ID)
    return nil
}
