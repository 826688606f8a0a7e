// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected storage or infrastructure fault.
// Delivery layers map it to TRANSACTION_FAILED / 500 responses.
var ErrInternal = errors.New("internal")
