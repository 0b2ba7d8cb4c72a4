package funding

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PolicyError reports malformed or missing funding configuration. It is
// returned before any network call is made.
type PolicyError struct {
	Field  string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid funding policy: %s: %s", e.Field, e.Reason)
}

// ContractReadError reports a failed getTotalFunds() call. No decision is
// produced for the invocation.
type ContractReadError struct {
	Contract common.Address
	Err      error
}

func (e *ContractReadError) Error() string {
	return fmt.Sprintf("read total funds of %s: %v", e.Contract.Hex(), e.Err)
}

func (e *ContractReadError) Unwrap() error { return e.Err }
