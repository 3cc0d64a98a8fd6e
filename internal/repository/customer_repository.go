package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/iliyamo/tailor-api/internal/model"
)

// CustomerRepo provides access to the customers table.
type CustomerRepo struct{ db *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = "id, user_id, full_name, email, phone, gender, address, created_at, updated_at"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a customer row.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
    return insertCustomer(ctx, r.db, c)
}

// CreateWithMeasurements inserts the customer and all measurements in one
// transaction.  Either every row is written or none is.
func (r *CustomerRepo) CreateWithMeasurements(ctx context.Context, c *model.Customer, ms []*model.Measurement) (err error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    if err = insertCustomer(ctx, tx, c); err != nil {
        return err
    }
    for _, m := range ms {
        if err = insertMeasurement(ctx, tx, m); err != nil {
            return fmt.Errorf("insert measurement: %w", err)
        }
    }
    return tx.Commit()
}

func insertCustomer(ctx context.Context, ex execer, c *model.Customer) error {
    _, err := ex.ExecContext(ctx,
        "INSERT INTO customers ("+customerColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
        c.ID, c.OwnerID, c.FullName, c.Email, c.Phone, c.Gender, c.Address, c.CreatedAt, c.UpdatedAt)
    return err
}

// GetByID returns a customer regardless of owner; ownership is checked by
// the caller so that "missing" and "not yours" stay distinguishable.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*model.Customer, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+customerColumns+" FROM customers WHERE id = ? LIMIT 1", id)
    c, err := scanCustomer(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrCustomerNotFound
    }
    return c, err
}

// Update writes every mutable column of c.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE customers SET full_name = ?, email = ?, phone = ?, gender = ?, address = ?, updated_at = ?
         WHERE id = ?`,
        c.FullName, c.Email, c.Phone, c.Gender, c.Address, c.UpdatedAt, c.ID)
    if err != nil {
        return err
    }
    return expectOneRow(res, ErrCustomerNotFound)
}

// Delete removes a customer; its measurements go with it through the
// foreign key cascade.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
    if err != nil {
        return err
    }
    return expectOneRow(res, ErrCustomerNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanCustomer(s rowScanner) (*model.Customer, error) {
    var (
        c                              model.Customer
        email, phone, gender, address sql.NullString
    )
    if err := s.Scan(&c.ID, &c.OwnerID, &c.FullName, &email, &phone, &gender, &address, &c.CreatedAt, &c.UpdatedAt); err != nil {
        return nil, err
    }
    c.Email = nullableString(email)
    c.Phone = nullableString(phone)
    c.Gender = nullableString(gender)
    c.Address = nullableString(address)
    return &c, nil
}

// expectOneRow maps a zero-row write onto notFound.  The DSN sets
// clientFoundRows so an UPDATE that changes nothing still counts its match.
func expectOneRow(res sql.Result, notFound error) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return notFound
    }
    return nil
}
