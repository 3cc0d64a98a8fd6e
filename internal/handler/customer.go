package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/service"
)

// CustomerHandler serves the owner-scoped customer and measurement routes.
// Every operation is performed on behalf of the authenticated user.
type CustomerHandler struct {
    Customers *service.CustomerService
}

func NewCustomerHandler(s *service.CustomerService) *CustomerHandler {
    return &CustomerHandler{Customers: s}
}

type customerReq struct {
    FullName string  `json:"fullName" validate:"required,min=1,max=100"`
    Email    *string `json:"email" validate:"omitempty,email,max=255"`
    Phone    *string `json:"phone" validate:"omitempty,min=10,max=15"`
    Gender   *string `json:"gender" validate:"omitempty,oneof=male female other"`
    Address  *string `json:"address" validate:"omitempty,max=500"`
}

func (r *customerReq) trim() { r.FullName = strings.TrimSpace(r.FullName) }

func (r customerReq) input() service.CustomerInput {
    return service.CustomerInput{
        FullName: r.FullName,
        Email:    r.Email,
        Phone:    r.Phone,
        Gender:   r.Gender,
        Address:  r.Address,
    }
}

// A supplied fullName must not be blank; the other fields may be cleared.
type customerPatchReq struct {
    FullName *string `json:"fullName" validate:"omitnil,min=1,max=100"`
    Email    *string `json:"email" validate:"omitempty,email,max=255"`
    Phone    *string `json:"phone" validate:"omitempty,min=10,max=15"`
    Gender   *string `json:"gender" validate:"omitempty,oneof=male female other"`
    Address  *string `json:"address" validate:"omitempty,max=500"`
}

func (r *customerPatchReq) trim() { trimPtr(r.FullName) }

type measurementItem struct {
    Type  string         `json:"type" validate:"required,min=1,max=50"`
    Data  map[string]any `json:"data"`
    Notes *string        `json:"notes" validate:"omitempty,max=1000"`
}

func (m *measurementItem) trim() { m.Type = strings.TrimSpace(m.Type) }

func (m measurementItem) input() service.MeasurementInput {
    return service.MeasurementInput{Type: m.Type, Data: m.Data, Notes: m.Notes}
}

type customerWithMeasurementsReq struct {
    customerReq
    Measurements []measurementItem `json:"measurements" validate:"dive"`
}

func (r *customerWithMeasurementsReq) trim() {
    r.customerReq.trim()
    for i := range r.Measurements {
        r.Measurements[i].trim()
    }
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    var req customerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, err := h.Customers.CreateCustomer(ctx, uid, req.input())
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "customer": cust})
}

// CreateWithMeasurements handles POST /api/customers/with-measurements.  The
// customer and all of its measurements are stored atomically.
func (h *CustomerHandler) CreateWithMeasurements(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    var req customerWithMeasurementsReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    items := make([]service.MeasurementInput, 0, len(req.Measurements))
    for _, m := range req.Measurements {
        items = append(items, m.input())
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, ms, err := h.Customers.CreateCustomerWithMeasurements(ctx, uid, req.input(), items)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "customer": cust, "measurements": ms})
}

// List handles GET /api/customers?page=&limit=&search=.
func (h *CustomerHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    page, err := h.Customers.ListCustomers(ctx, uid, service.ListQuery{
        Page:   queryInt(c, "page"),
        Limit:  queryInt(c, "limit"),
        Search: strings.TrimSpace(c.QueryParam("search")),
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":    true,
        "customers":  page.Customers,
        "pagination": page.Pagination,
    })
}

// Get handles GET /api/customers/:id and includes the customer's measurements.
func (h *CustomerHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    id, err := idParam(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, ms, err := h.Customers.GetCustomer(ctx, uid, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "customer": cust, "measurements": ms})
}

// Update handles PUT /api/customers/:id.  Omitted fields keep their values.
func (h *CustomerHandler) Update(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    id, err := idParam(c, "id")
    if err != nil {
        return err
    }
    var req customerPatchReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, err := h.Customers.UpdateCustomer(ctx, uid, id, model.CustomerPatch{
        FullName: req.FullName,
        Email:    req.Email,
        Phone:    req.Phone,
        Gender:   req.Gender,
        Address:  req.Address,
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "customer": cust})
}

// Delete handles DELETE /api/customers/:id.  Measurements go with it.
func (h *CustomerHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    id, err := idParam(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    if err := h.Customers.DeleteCustomer(ctx, uid, id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Customer deleted successfully"})
}
