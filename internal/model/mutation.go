package model

import "fmt"

// MutationRequest asks to set one attribute of one live node.
type MutationRequest struct {
	NodeID NodeID `yaml:"id"    json:"nodeId"`
	Name   string `yaml:"name"  json:"name"`
	Value  any    `yaml:"value" json:"value"`
}

// MutationResult reports whether a mutation was accepted and forwarded to
// the host. Applied is true only when Error is empty.
type MutationResult struct {
	Applied bool      `yaml:"applied"           json:"applied"`
	Error   ErrorKind `yaml:"error,omitempty"   json:"error,omitempty"`
	Message string    `yaml:"message,omitempty" json:"message,omitempty"`
}

// Applied is the result of an accepted mutation.
func Applied() MutationResult {
	return MutationResult{Applied: true}
}

// Failed builds a failed result from err. Errors without a kind are
// reported as MutatorFailed.
func Failed(err error) MutationResult {
	kind := KindOf(err)
	if kind == KindNone {
		kind = MutatorFailed
	}
	return MutationResult{Error: kind, Message: err.Error()}
}

func (r MutationResult) String() string {
	if r.Applied {
		return "applied"
	}
	return fmt.Sprintf("%s: %s", r.Error, r.Message)
}
