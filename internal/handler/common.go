package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getAccountID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getAccountID extracts the account_id placed into the context by the
// JWT middleware and converts it to uint64.  JWT numeric claims decode
// as float64, so several representations are accepted.
func getAccountID(c echo.Context) (uint64, error) {
	v := c.Get("account_id")
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
	return 0, errors.New("invalid account_id in context")
}

// optionalAccountID is getAccountID for routes behind OptionalJWTAuth:
// nil when the request is anonymous.
func optionalAccountID(c echo.Context) *uint64 {
	if c.Get("account_id") == nil {
		return nil
	}
	id, err := getAccountID(c)
	if err != nil {
		return nil
	}
	return &id
}

// pathID parses the named path parameter as a uint64 identifier.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
