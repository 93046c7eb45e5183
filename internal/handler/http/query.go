package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/office-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// queryInt reads an integer query parameter; missing or malformed values
// yield 0 so the request DTO applies its default.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

// pathID reads a UUID path parameter, answering 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	id := chi.URLParam(r, key)
	if !validator.IsValidUUID(id) {
		response.ValidationError(w, map[string]string{key: key + " must be a valid UUID"})
		return "", false
	}
	return id, true
}
