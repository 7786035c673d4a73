package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/humanosaude/portal/internal/response"
)

const (
	defaultBodyLimit = 1_048_576 // 1 MB
	imageBodyLimit   = 32 << 20  // base64 of a 20MB image still reaches the size check
)

var errEmptyBody = errors.New("corpo da requisição vazio")

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})

}

// readJSON decodes a 1MB-limited body into data.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	return readJSONLimit(w, r, data, defaultBodyLimit)
}

func readJSONLimit(w http.ResponseWriter, r *http.Request, data any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}

	return nil
}

// serverError logs the cause and answers 500 with the message and the error
// text.
func (app *application) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.logger.Error(component, "%s %s: %s: %v", r.Method, r.URL.Path, message, err)
	writeJSONError(w, http.StatusInternalServerError, message+": "+err.Error())
}
