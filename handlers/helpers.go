package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/websters-shivaji/registration-system/services"
	"github.com/websters-shivaji/registration-system/sheets"
	"github.com/websters-shivaji/registration-system/validation"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("service misconfigured or unavailable",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusServiceUnavailable, "registration is temporarily unavailable, please try again later")
}

// mapServiceErrorToHTTP converts registration pipeline errors into HTTP
// responses. Validation and duplicate errors carry their message to the
// client; backend causes are logged and replaced with a generic message.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		badRequestResponse(w, r, validationErrs)

	case errors.Is(err, services.ErrMissingRequiredFields),
		errors.Is(err, services.ErrInvalidPayload),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicatePhone):
		badRequestResponse(w, r, err)

	case errors.Is(err, sheets.ErrMissingCredentials),
		errors.Is(err, sheets.ErrMissingSpreadsheetID),
		errors.Is(err, sheets.ErrAuthenticationFailed):
		serviceUnavailableResponse(w, r, logger, err)

	case errors.Is(err, services.ErrUploadFailed),
		errors.Is(err, services.ErrBackendReadWrite):
		logger.Error("registration backend failure",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		errorResponse(w, r, http.StatusInternalServerError, publicMessage(err))

	default:
		serverErrorResponse(w, r, logger, err)
	}
}

// publicMessage strips the wrapped cause, keeping only the sentinel text.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrUploadFailed):
		return services.ErrUploadFailed.Error()
	case errors.Is(err, services.ErrBackendReadWrite):
		return services.ErrBackendReadWrite.Error()
	default:
		return "registration failed"
	}
}
