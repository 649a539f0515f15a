package resources

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON value from r's body into v, capping the
// body at maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// badBodyMessage maps a decode failure to the message shown to clients.
func badBodyMessage(err error) string {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, errEmptyBody):
		return "request body is required"
	case errors.As(err, &tooBig):
		return "request body too large"
	default:
		return "invalid JSON body"
	}
}
