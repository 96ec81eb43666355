// Package jsonutil provides the JSON helpers shared by the layout client and
// the layout API: bounded body decoding with contextual errors, and response
// writing.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps how much of a request or response body is decoded.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned when a body holds no JSON value at all.
var ErrEmptyBody = errors.New("empty JSON body")

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// DecodeBody decodes a single JSON value from r (read up to MaxBodyBytes)
// into v, wrapping any error with context.
func DecodeBody(r io.Reader, v interface{}, context string) error {
	dec := json.NewDecoder(io.LimitReader(r, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", context, ErrEmptyBody)
		}
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// WriteJSON writes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) error {
	return WriteJSON(w, status, map[string]string{"error": msg})
}
