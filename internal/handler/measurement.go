package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-api/internal/model"
)

type addMeasurementReq struct {
    CustomerID string `json:"customerId" validate:"required,uuid"`
    measurementItem
}

type measurementPatchReq struct {
    Type  *string        `json:"type" validate:"omitnil,min=1,max=50"`
    Data  map[string]any `json:"data"`
    Notes *string        `json:"notes" validate:"omitempty,max=1000"`
}

func (r *measurementPatchReq) trim() { trimPtr(r.Type) }

// AddMeasurement handles POST /api/customers/measurements.
func (h *CustomerHandler) AddMeasurement(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    var req addMeasurementReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    m, err := h.Customers.AddMeasurement(ctx, uid, strings.ToLower(req.CustomerID), req.input())
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "measurement": m})
}

// ListMeasurements handles GET /api/customers/:id/measurements.
func (h *CustomerHandler) ListMeasurements(c echo.Context) error {
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

    ms, err := h.Customers.ListMeasurements(ctx, uid, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "measurements": ms})
}

func (h *CustomerHandler) GetMeasurement(c echo.Context) error {
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

    m, err := h.Customers.GetMeasurement(ctx, uid, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "measurement": m})
}

// UpdateMeasurement handles PUT /api/customers/measurements/:id.  A supplied
// data object replaces the stored one wholesale.
func (h *CustomerHandler) UpdateMeasurement(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    id, err := idParam(c, "id")
    if err != nil {
        return err
    }
    var req measurementPatchReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    m, err := h.Customers.UpdateMeasurement(ctx, uid, id, model.MeasurementPatch{
        Type:  req.Type,
        Data:  req.Data,
        Notes: req.Notes,
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "measurement": m})
}

func (h *CustomerHandler) DeleteMeasurement(c echo.Context) error {
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

    if err := h.Customers.DeleteMeasurement(ctx, uid, id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Measurement deleted successfully"})
}
