package topology

import "errors"

var errUnknownContinuationToken = errors.New("topology: unknown continuation token")
