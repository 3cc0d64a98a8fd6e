package model

import "time"

// Measurement is a set of body measurements for a customer.  Type is a
// free-form tag (e.g. "shirt", "trousers") and Data holds arbitrary
// key/value pairs stored in a JSON column.  Ownership is resolved through
// the parent customer.
type Measurement struct {
    ID         string         `json:"id"`
    CustomerID string         `json:"customerId"`
    Type       string         `json:"type"`
    Data       map[string]any `json:"data"`
    Notes      *string        `json:"notes"`
    CreatedAt  time.Time      `json:"createdAt"`
    UpdatedAt  time.Time      `json:"updatedAt"`
}

// MeasurementPatch carries a partial update.  A nil Data map leaves the
// stored payload unchanged; a non-nil map replaces it.
type MeasurementPatch struct {
    Type  *string
    Data  map[string]any
    Notes *string
}

// Apply copies the set fields of p onto m.
func (p MeasurementPatch) Apply(m *Measurement) {
    if p.Type != nil {
        m.Type = *p.Type
    }
    if p.Data != nil {
        m.Data = p.Data
    }
    if p.Notes != nil {
        m.Notes = p.Notes
    }
}
