// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for the mcpdoctor CLI. Findings are diagnostics, not process
// failures: a run that produced findings still exits 0.
const (
	ExitSuccess = 0
	// ExitRuntime covers unclassified runtime failures.
	ExitRuntime = 1
	// ExitUsage covers usage errors, authentication-required results, and
	// classified network failures.
	ExitUsage = 2
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRuntimeError creates an error for unclassified runtime failures
func NewRuntimeError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitRuntime,
		Message: msg,
		Cause:   cause,
	}
}

// NewUsageError creates an error for invalid invocations
func NewUsageError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitUsage,
		Message: msg,
		Cause:   cause,
	}
}

// Suggester is implemented by errors that carry remediation guidance for the
// user.
type Suggester interface {
	Suggestion() string
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	printSuggestion(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(ExitRuntime)
}

// printSuggestion walks the error chain and prints the first remediation
// suggestion it finds.
func printSuggestion(err error) {
	for err != nil {
		if suggester, ok := err.(Suggester); ok {
			if suggestion := suggester.Suggestion(); suggestion != "" {
				fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", suggestion)
			}
			return
		}
		err = errors.Unwrap(err)
	}
}
