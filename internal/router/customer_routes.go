package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-api/internal/handler"
    "github.com/iliyamo/tailor-api/internal/middleware"
)

// RegisterCustomers registers the owner-scoped customer and measurement
// endpoints under /api/customers.  All routes require a valid access token;
// ownership is checked by the service for every record.
func RegisterCustomers(e *echo.Echo, h *handler.CustomerHandler, v middleware.AccessVerifier) {
    g := e.Group("/api/customers", middleware.JWTAuth(v))

    // ---- Customers ----
    g.GET("", h.List)
    g.POST("", h.Create)
    g.POST("/with-measurements", h.CreateWithMeasurements)
    g.GET("/:id", h.Get)
    g.PUT("/:id", h.Update)
    g.DELETE("/:id", h.Delete)

    // ---- Measurements ----
    // Static segments win over :id in echo's router, so these do not clash
    // with the customer routes above.
    g.POST("/measurements", h.AddMeasurement)
    g.GET("/:id/measurements", h.ListMeasurements)
    g.GET("/measurements/:id", h.GetMeasurement)
    g.PUT("/measurements/:id", h.UpdateMeasurement)
    g.DELETE("/measurements/:id", h.DeleteMeasurement)
}
