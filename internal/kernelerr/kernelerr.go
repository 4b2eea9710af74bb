// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kernelerr carries the kernel's error kinds as a single wrapped
// error type rather than a distinct Go type per failure mode, so callers
// branch on Kind instead of type-asserting.
package kernelerr

import "fmt"

// Kind names one of the kernel's failure modes. Kinds, not types: every
// kernel-raised error is a *Error carrying one of these.
type Kind string

const (
	InvalidTransition     Kind = "InvalidTransition"
	PermissionDenied      Kind = "PermissionDenied"
	SchemaViolation       Kind = "SchemaViolation"
	KeyCollision          Kind = "KeyCollision"
	CitationRuleViolation Kind = "CitationRuleViolation"
	ParseFailure          Kind = "ParseFailure"
	ProviderTransient     Kind = "ProviderTransient"
	ProviderPermanent     Kind = "ProviderPermanent"
	BudgetExhausted       Kind = "BudgetExhausted"
)

// Fatal reports whether a kind always aborts the current run (no retry,
// no downgrade). BudgetExhausted, ParseFailure, and ProviderTransient are
// recoverable by design and are not fatal.
func (k Kind) Fatal() bool {
	switch k {
	case InvalidTransition, PermissionDenied, SchemaViolation, KeyCollision, CitationRuleViolation:
		return true
	case ProviderPermanent:
		return true
	default:
		return false
	}
}

// Error is the kernel's single error type. Fields beyond Kind and Message
// are optional context for logging.
type Error struct {
	Kind    Kind
	Message string
	Agent   string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Agent != "" {
		return fmt.Sprintf("%s: %s (agent=%s)", e.Kind, e.Message, e.Agent)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind wrapping a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithAgent returns a copy of e with Agent set, for call sites that know
// which agent triggered the failure.
func (e *Error) WithAgent(agent string) *Error {
	cp := *e
	cp.Agent = agent
	return &cp
}

// Is supports errors.Is by comparing Kind, so callers can write
// errors.Is(err, kernelerr.New(kernelerr.PermissionDenied, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
