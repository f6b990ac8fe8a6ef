package couchdb

import (
	"fmt"
	"sort"
	"strings"
)

// ViolationKind classifies a single parameter violation.
type ViolationKind int

const (
	// ViolationMissing marks a required parameter that was not provided.
	ViolationMissing ViolationKind = iota

	// ViolationUnrecognized marks a provided parameter the operation does
	// not accept.
	ViolationUnrecognized
)

// Violation is one parameter problem found during validation.
type Violation struct {
	Kind  ViolationKind
	Param string
}

func (v Violation) String() string {
	if v.Kind == ViolationMissing {
		return fmt.Sprintf("missing required parameter %q", v.Param)
	}

	return fmt.Sprintf("parameter %q is not recognized for this operation", v.Param)
}

// ValidationError reports every parameter violation for one call at once.
// It is the expected failure mode for caller misuse and is produced without
// touching the network.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, violation := range e.Violations {
		messages[i] = violation.String()
	}

	return "invalid parameters: " + strings.Join(messages, "; ")
}

// ValidateParams checks a parameter bag against the required and valid name
// sets of an operation. It returns nil when the bag is acceptable, otherwise
// a ValidationError listing all violations: missing required parameters first
// in declaration order, then unrecognized parameters in lexical order. The
// reserved "headers" key is always permitted.
//
// A nil bag is treated as empty. Presence is membership in the map: values of
// false, 0, or "" are valid; only absent keys violate a requirement.
func ValidateParams(bag Params, required, valid []string) *ValidationError {
	var violations []Violation

	for _, name := range required {
		if _, ok := bag[name]; !ok {
			violations = append(violations, Violation{Kind: ViolationMissing, Param: name})
		}
	}

	validSet := make(map[string]struct{}, len(valid))
	for _, name := range valid {
		validSet[name] = struct{}{}
	}

	var unrecognized []string

	for name := range bag {
		if name == headersKey {
			continue
		}

		if _, ok := validSet[name]; !ok {
			unrecognized = append(unrecognized, name)
		}
	}

	sort.Strings(unrecognized)

	for _, name := range unrecognized {
		violations = append(violations, Violation{Kind: ViolationUnrecognized, Param: name})
	}

	if len(violations) == 0 {
		return nil
	}

	return &ValidationError{Violations: violations}
}

// Validate checks a parameter bag against the operation's parameter sets.
// A non-nil result must be surfaced to the caller without building a request.
func (op *Operation) Validate(bag Params) error {
	if verr := ValidateParams(bag, op.Required, op.Valid); verr != nil {
		return verr
	}

	return nil
}
