package model

import "time"

// Customer is a client of a tailor.  Every customer belongs to exactly one
// user (OwnerID); deleting the user cascades to its customers.
type Customer struct {
    ID        string    `json:"id"`
    OwnerID   string    `json:"userId"`
    FullName  string    `json:"fullName"`
    Email     *string   `json:"email"`
    Phone     *string   `json:"phone"`
    Gender    *string   `json:"gender"`
    Address   *string   `json:"address"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerPatch carries a partial update.  Nil fields are left untouched.
type CustomerPatch struct {
    FullName *string
    Email    *string
    Phone    *string
    Gender   *string
    Address  *string
}

// Apply copies the non-nil fields of p onto c.
func (p CustomerPatch) Apply(c *Customer) {
    if p.FullName != nil {
        c.FullName = *p.FullName
    }
    if p.Email != nil {
        c.Email = p.Email
    }
    if p.Phone != nil {
        c.Phone = p.Phone
    }
    if p.Gender != nil {
        c.Gender = p.Gender
    }
    if p.Address != nil {
        c.Address = p.Address
    }
}
