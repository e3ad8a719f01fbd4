package contracts

import (
	"errors"
	"fmt"
)

// ErrNoData means the provider returned zero records. The ticker is skipped, not failed.
var ErrNoData = errors.New("no data")

// FetchError wraps an I/O or connectivity failure talking to the data provider.
// It is fatal to the current ticker pass only.
type FetchError struct {
	Op     string
	Ticker string
	Err    error
}

// NewFetchError wraps err; nil stays nil
func NewFetchError(op, ticker string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, Ticker: ticker, Err: err}
}

func (e *FetchError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fetch %s [%s]: %v", e.Op, e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is (or wraps) a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
