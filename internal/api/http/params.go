package http

import (
	"fmt"
	"net/http"
	"strconv"

	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// requireCaller writes 401 and reports false when no caller is attached
func requireCaller(w http.ResponseWriter, r *http.Request) (*security.UserClaims, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || claims.UserID() == "" {
		writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}

func pathInt32(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, name)
	}
	return int32(v), nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, name)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", service.ErrInvalidInput, name)
	}
	return v, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", service.ErrInvalidInput, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", service.ErrInvalidInput, name)
	}
	return v, nil
}
