package api

import (
	"fmt"
	"net/http"
)

// MethodNotAllowedHandler is wired as the router-wide fallback so a 405
// comes back in the same JSON error shape as every other failure.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error: fmt.Sprintf("%s is not allowed on this route", r.Method),
		})
	}
}
