package handler // handler defines http handlers

import (
    "database/sql" // database/sql provides the ErrNoRows sentinel
    "errors"       // errors provides sentinel values used in getUserID
    "strconv"      // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// noRows reports whether err is the driver's no-rows sentinel.
func noRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores claims as decoded JSON values, so numbers arrive
// as float64 and occasionally as strings.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter as a positive uint64.
func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}
