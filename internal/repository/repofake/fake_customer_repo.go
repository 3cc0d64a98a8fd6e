package repofake

import (
    "context"
    "sort"
    "strings"
    "sync"

    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/repository"
)

// FakeCustomerRepo stores customers and measurements together so that
// deleting a customer cascades the way the foreign key does.
type FakeCustomerRepo struct {
    customers    map[string]model.Customer
    measurements map[string]model.Measurement
    lock         sync.RWMutex
}

func NewFakeCustomerRepo() *FakeCustomerRepo {
    return &FakeCustomerRepo{
        customers:    make(map[string]model.Customer),
        measurements: make(map[string]model.Measurement),
    }
}

// Measurements returns a MeasurementStore view over the same data.
func (cr *FakeCustomerRepo) Measurements() *FakeMeasurementRepo {
    return &FakeMeasurementRepo{parent: cr}
}

func (cr *FakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
    cr.lock.Lock()
    defer cr.lock.Unlock()

    cr.customers[c.ID] = *c
    return nil
}

func (cr *FakeCustomerRepo) CreateWithMeasurements(_ context.Context, c *model.Customer, ms []*model.Measurement) error {
    cr.lock.Lock()
    defer cr.lock.Unlock()

    cr.customers[c.ID] = *c
    for _, m := range ms {
        cr.measurements[m.ID] = *m
    }
    return nil
}

func (cr *FakeCustomerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
    cr.lock.RLock()
    defer cr.lock.RUnlock()

    c, ok := cr.customers[id]
    if !ok {
        return nil, repository.ErrCustomerNotFound
    }
    return &c, nil
}

func (cr *FakeCustomerRepo) List(_ context.Context, q repository.CustomerQuery) ([]*model.Customer, int64, error) {
    cr.lock.RLock()
    defer cr.lock.RUnlock()

    search := strings.ToLower(strings.TrimSpace(q.Search))
    matched := make([]*model.Customer, 0)
    for _, v := range cr.customers {
        if v.OwnerID != q.OwnerID {
            continue
        }
        if search != "" && !matches(v, search) {
            continue
        }
        c := v
        matched = append(matched, &c)
    }

    sort.Slice(matched, func(i, j int) bool {
        if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
            return matched[i].CreatedAt.After(matched[j].CreatedAt)
        }
        return matched[i].ID > matched[j].ID
    })

    total := int64(len(matched))
    if q.Offset >= len(matched) {
        return []*model.Customer{}, total, nil
    }
    end := q.Offset + q.Limit
    if end > len(matched) {
        end = len(matched)
    }
    return matched[q.Offset:end], total, nil
}

func matches(c model.Customer, search string) bool {
    if strings.Contains(strings.ToLower(c.FullName), search) {
        return true
    }
    return c.Phone != nil && strings.Contains(strings.ToLower(*c.Phone), search)
}

func (cr *FakeCustomerRepo) Update(_ context.Context, c *model.Customer) error {
    cr.lock.Lock()
    defer cr.lock.Unlock()

    if _, ok := cr.customers[c.ID]; !ok {
        return repository.ErrCustomerNotFound
    }
    cr.customers[c.ID] = *c
    return nil
}

func (cr *FakeCustomerRepo) Delete(_ context.Context, id string) error {
    cr.lock.Lock()
    defer cr.lock.Unlock()

    if _, ok := cr.customers[id]; !ok {
        return repository.ErrCustomerNotFound
    }
    delete(cr.customers, id)
    for mid, m := range cr.measurements {
        if m.CustomerID == id {
            delete(cr.measurements, mid)
        }
    }
    return nil
}

// FakeMeasurementRepo shares storage with the FakeCustomerRepo it came from.
type FakeMeasurementRepo struct {
    parent *FakeCustomerRepo
}

func (mr *FakeMeasurementRepo) Create(_ context.Context, m *model.Measurement) error {
    mr.parent.lock.Lock()
    defer mr.parent.lock.Unlock()

    mr.parent.measurements[m.ID] = *m
    return nil
}

func (mr *FakeMeasurementRepo) GetByID(_ context.Context, id string) (*model.Measurement, error) {
    mr.parent.lock.RLock()
    defer mr.parent.lock.RUnlock()

    m, ok := mr.parent.measurements[id]
    if !ok {
        return nil, repository.ErrMeasurementNotFound
    }
    return &m, nil
}

func (mr *FakeMeasurementRepo) ListByCustomer(_ context.Context, customerID string) ([]*model.Measurement, error) {
    mr.parent.lock.RLock()
    defer mr.parent.lock.RUnlock()

    out := make([]*model.Measurement, 0)
    for _, v := range mr.parent.measurements {
        if v.CustomerID == customerID {
            m := v
            out = append(out, &m)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
            return out[i].CreatedAt.After(out[j].CreatedAt)
        }
        return out[i].ID > out[j].ID
    })
    return out, nil
}

func (mr *FakeMeasurementRepo) Update(_ context.Context, m *model.Measurement) error {
    mr.parent.lock.Lock()
    defer mr.parent.lock.Unlock()

    if _, ok := mr.parent.measurements[m.ID]; !ok {
        return repository.ErrMeasurementNotFound
    }
    mr.parent.measurements[m.ID] = *m
    return nil
}

func (mr *FakeMeasurementRepo) Delete(_ context.Context, id string) error {
    mr.parent.lock.Lock()
    defer mr.parent.lock.Unlock()

    if _, ok := mr.parent.measurements[id]; !ok {
        return repository.ErrMeasurementNotFound
    }
    delete(mr.parent.measurements, id)
    return nil
}
