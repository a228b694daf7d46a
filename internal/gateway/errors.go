package gateway

import (
	"fmt"
	"strings"
)

// RemoteError reports a non-2xx status from the review backend.
type RemoteError struct {
	Op     string
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
}

// NetworkError reports a transport-level failure before any status was
// received, e.g. an unreachable host.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ContractError reports a structurally invalid analysis payload. The
// normalizer is total over valid payloads, so shape violations stop at
// the gateway.
type ContractError struct {
	Op         string
	Violations []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: invalid backend payload: %s", e.Op, strings.Join(e.Violations, "; "))
}
