package repository

import "errors"

// ErrStoreUnavailable is returned when the relational store was not reachable
// at startup. Callers treat the mirror as best effort and keep serving from
// the workbook.
var ErrStoreUnavailable = errors.New("relational store unavailable")
