package pubchem

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures of upstream calls.
type ErrorKind int

const (
	// KindStatus means PubChem answered with a non-2xx status code.
	KindStatus ErrorKind = iota
	// KindRequest covers connection, DNS and timeout failures.
	KindRequest
	// KindUnexpected is everything else, e.g. an undecodable body.
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindRequest:
		return "request"
	default:
		return "unexpected"
	}
}

// APIError is the uniform error shape returned by the client. Handlers
// branch on Kind and StatusCode: a 404 is an expected "no results" outcome
// and a 400 usually means malformed SMILES/InChI notation.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("pubchem: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("pubchem: %s error: %s", e.Kind, e.Message)
}

// IsNotFound reports whether err is a PubChem 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.StatusCode == http.StatusNotFound
}

// IsBadRequest reports whether err is a PubChem 400.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.StatusCode == http.StatusBadRequest
}
