package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"fightcards/models"
)

// maxBodyBytes bounds JSON bodies; photos arrive inline as base64
const maxBodyBytes = 20 << 20

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTemplateNotFound),
		errors.Is(err, models.ErrNoFinalImage):
		return http.StatusNotFound
	case errors.Is(err, models.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrOrderUnpaid):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidImage),
		errors.Is(err, models.ErrInvalidCustomization),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidOrderRequest),
		errors.Is(err, models.ErrShippingCountry):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAssetLoad),
		errors.Is(err, models.ErrAssetDecode),
		errors.Is(err, models.ErrUpload),
		errors.Is(err, models.ErrBackgroundRemoval),
		errors.Is(err, models.ErrSnapshot):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError logs and reports a failed action
func writeError(w http.ResponseWriter, handler, action string, err error) {
	status := statusFor(err)
	log.Printf("❌ %s: Failed to %s: %v", handler, action, err)
	msg := fmt.Sprintf("Failed to %s: %v", action, err)
	if errors.Is(err, models.ErrUpload) {
		msg += ". Please try again."
	}
	http.Error(w, msg, status)
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, handler string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ %s: Error encoding response: %v", handler, err)
	}
}

// decodeJSON decodes the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// pathParts splits the path after prefix into its segments
func pathParts(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// methodAllowed rejects any method not listed
func methodAllowed(w http.ResponseWriter, r *http.Request, handler string, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	log.Printf("❌ %s: Method not allowed: %s", handler, r.Method)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}
