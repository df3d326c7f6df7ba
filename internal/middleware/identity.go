package middleware

import "github.com/labstack/echo/v4"

// actorID identifies the caller for rate limit keys: the administrator id
// when the admin gate ran first, "anon" otherwise.
func actorID(c echo.Context) string {
	if a := AdminFrom(c); a.Valid() {
		return a.ID()
	}
	return "anon"
}
