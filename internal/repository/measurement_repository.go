package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/iliyamo/tailor-api/internal/model"
)

// MeasurementRepo provides access to the measurements table.  The data
// payload is stored as a JSON document.
type MeasurementRepo struct{ db *sql.DB }

func NewMeasurementRepo(db *sql.DB) *MeasurementRepo { return &MeasurementRepo{db: db} }

const measurementColumns = "id, customer_id, type, data, notes, created_at, updated_at"

// Create inserts a measurement row.
func (r *MeasurementRepo) Create(ctx context.Context, m *model.Measurement) error {
    return insertMeasurement(ctx, r.db, m)
}

func insertMeasurement(ctx context.Context, ex execer, m *model.Measurement) error {
    data, err := encodeData(m.Data)
    if err != nil {
        return err
    }
    _, err = ex.ExecContext(ctx,
        "INSERT INTO measurements ("+measurementColumns+") VALUES (?,?,?,?,?,?,?)",
        m.ID, m.CustomerID, m.Type, data, m.Notes, m.CreatedAt, m.UpdatedAt)
    return err
}

// GetByID returns a measurement by id.
func (r *MeasurementRepo) GetByID(ctx context.Context, id string) (*model.Measurement, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+measurementColumns+" FROM measurements WHERE id = ? LIMIT 1", id)
    m, err := scanMeasurement(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrMeasurementNotFound
    }
    return m, err
}

// ListByCustomer returns every measurement of a customer, newest first.
func (r *MeasurementRepo) ListByCustomer(ctx context.Context, customerID string) ([]*model.Measurement, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+measurementColumns+" FROM measurements WHERE customer_id = ? ORDER BY created_at DESC, id DESC",
        customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []*model.Measurement{}
    for rows.Next() {
        m, err := scanMeasurement(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// Update writes every mutable column of m.
func (r *MeasurementRepo) Update(ctx context.Context, m *model.Measurement) error {
    data, err := encodeData(m.Data)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE measurements SET type = ?, data = ?, notes = ?, updated_at = ? WHERE id = ?",
        m.Type, data, m.Notes, m.UpdatedAt, m.ID)
    if err != nil {
        return err
    }
    return expectOneRow(res, ErrMeasurementNotFound)
}

// Delete removes a measurement.
func (r *MeasurementRepo) Delete(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM measurements WHERE id = ?", id)
    if err != nil {
        return err
    }
    return expectOneRow(res, ErrMeasurementNotFound)
}

func encodeData(data map[string]any) ([]byte, error) {
    if data == nil {
        data = map[string]any{}
    }
    b, err := json.Marshal(data)
    if err != nil {
        return nil, fmt.Errorf("encode measurement data: %w", err)
    }
    return b, nil
}

func scanMeasurement(s rowScanner) (*model.Measurement, error) {
    var (
        m     model.Measurement
        data  []byte
        notes sql.NullString
    )
    if err := s.Scan(&m.ID, &m.CustomerID, &m.Type, &data, &notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
        return nil, err
    }
    m.Data = map[string]any{}
    if len(data) > 0 {
        if err := json.Unmarshal(data, &m.Data); err != nil {
            return nil, fmt.Errorf("decode measurement data: %w", err)
        }
    }
    m.Notes = nullableString(notes)
    return &m, nil
}
