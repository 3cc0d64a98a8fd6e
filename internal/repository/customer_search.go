package repository

import (
    "context"
    "strings"

    "github.com/iliyamo/tailor-api/internal/model"
)

// CustomerQuery defines the owner scope, filter and window for listing
// customers.  Limit and Offset are already normalised by the caller.
type CustomerQuery struct {
    OwnerID string
    Search  string
    Limit   int
    Offset  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of the owner's customers, newest first, together
// with the total number of matches.  Search is a case-insensitive substring
// match against full_name or phone.
func (r *CustomerRepo) List(ctx context.Context, q CustomerQuery) ([]*model.Customer, int64, error) {
    where := []string{"user_id = ?"}
    args := []any{q.OwnerID}

    if s := strings.TrimSpace(q.Search); s != "" {
        pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
        where = append(where, "(LOWER(full_name) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ?)")
        args = append(args, pattern, pattern)
    }
    cond := strings.Join(where, " AND ")

    var total int64
    countSQL := "SELECT COUNT(*) FROM customers WHERE " + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }
    if total == 0 {
        return []*model.Customer{}, 0, nil
    }

    dataSQL := `SELECT ` + customerColumns + `
        FROM customers
        WHERE ` + cond + `
        ORDER BY created_at DESC, id DESC
        LIMIT ? OFFSET ?`

    argsData := append(append([]any{}, args...), q.Limit, q.Offset)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]*model.Customer, 0, q.Limit)
    for rows.Next() {
        c, err := scanCustomer(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}
