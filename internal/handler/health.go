package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers
    "time"     // timestamp in the response

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It reports the
// environment name and the current server time.
func Health(env string) echo.HandlerFunc {
    return func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{
            "status":      "ok",
            "environment": env,
            "timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
        })
    }
}
