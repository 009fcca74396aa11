package openweather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindStatus       ErrorKind = "status"
	KindDecode       ErrorKind = "decode"
	KindNoConditions ErrorKind = "no_conditions"
	KindCircuitOpen  ErrorKind = "circuit_open"
)

var errNoConditions = errors.New("response has no weather conditions")

// FetchError is returned by Client.Fetch. It never carries the API key.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "weather fetch error"
	}
	base := fmt.Sprintf("weather fetch %s error", e.Kind)
	if e.StatusCode > 0 {
		base = fmt.Sprintf("%s (status %d)", base, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", base, e.Err)
	}
	return base
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
