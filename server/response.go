package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ActivityAdmin/logger"
	"ActivityAdmin/model"
	"ActivityAdmin/service"
)

// apiResponse is the envelope of every JSON API response.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

// errorStatus maps a service error onto an HTTP status and a coarse reason code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, model.ErrInvalidPageSize):
		return http.StatusBadRequest, "invalid_page_size"
	case errors.Is(err, model.ErrInvalidSortKey):
		return http.StatusBadRequest, "invalid_sort_key"
	case errors.Is(err, service.ErrWrongPassword):
		return http.StatusBadRequest, "wrong_password"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusConflict, "duplicate_username"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "duplicate_email"
	case errors.Is(err, service.ErrExportUnavailable):
		return http.StatusServiceUnavailable, "export_unavailable"
	default:
		return http.StatusInternalServerError, "store"
	}
}

// writeError never exposes err itself; clients get the reason code only.
func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logger.String("code", code), logger.ErrorField(err))
	}
	writeJSON(w, status, apiResponse{Success: false, Code: code, Message: "operation failed"})
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return service.ErrValidation
	}
	return nil
}

// pageRequest reads pageIndex, pageSize, sortKey and desc from the query string.
func pageRequest(r *http.Request) (model.PageRequest, error) {
	q := r.URL.Query()
	page := model.PageRequest{PageIndex: 1, PageSize: model.DefaultPageSize, SortKey: q.Get("sortKey")}

	if v := q.Get("pageIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, service.ErrValidation
		}
		page.PageIndex = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, service.ErrValidation
		}
		page.PageSize = n
	}
	if v := q.Get("desc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return page, service.ErrValidation
		}
		page.Descending = b
	}
	return page, nil
}
