// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-arbiter
//
// go-arbiter is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-arbiter is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-arbiter.  If not, see <https://www.gnu.org/licenses/>.

package arbitration

import (
	"fmt"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
)

// Every failure in this package is a synchronous precondition rejection:
// the operation mutates nothing, emits nothing, and retrying with the same
// arguments fails identically. Each rejection is a distinct type so callers
// can dispatch with errors.Is against a zero value of the type.

// AlreadyRegisteredError is returned when registering an identity that is
// already on the roster. The original registration is untouched.
type AlreadyRegisteredError struct {
	Identity crypto.Digest
}

// Error satisfies builtin interface `error`
func (err AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("agent %v is already registered", err.Identity)
}

// Is implements the errors.Is interface
func (err AlreadyRegisteredError) Is(target error) bool {
	_, ok := target.(AlreadyRegisteredError)
	return ok
}

// NotRegisteredError is returned when an operation names an identity the
// registry does not know.
type NotRegisteredError struct {
	Identity crypto.Digest
}

// Error satisfies builtin interface `error`
func (err NotRegisteredError) Error() string {
	return fmt.Sprintf("agent %v is not registered", err.Identity)
}

// Is implements the errors.Is interface
func (err NotRegisteredError) Is(target error) bool {
	_, ok := target.(NotRegisteredError)
	return ok
}

// InvalidProposalError is returned when a proposal index is out of range.
type InvalidProposalError struct {
	Index basics.ProposalIndex
	Count uint64
}

// Error satisfies builtin interface `error`
func (err InvalidProposalError) Error() string {
	return fmt.Sprintf("proposal %d does not exist (have %d proposals)", err.Index, err.Count)
}

// Is implements the errors.Is interface
func (err InvalidProposalError) Is(target error) bool {
	_, ok := target.(InvalidProposalError)
	return ok
}

// WindowClosedError is returned when a prediction arrives after the proposal
// stopped accepting them, either because it is already decided or because
// deadline enforcement is on and its window elapsed.
type WindowClosedError struct {
	Index basics.ProposalIndex
}

// Error satisfies builtin interface `error`
func (err WindowClosedError) Error() string {
	return fmt.Sprintf("proposal %d is no longer accepting predictions", err.Index)
}

// Is implements the errors.Is interface
func (err WindowClosedError) Is(target error) bool {
	_, ok := target.(WindowClosedError)
	return ok
}

// AlreadySubmittedError is returned when an agent predicts twice on the same
// proposal. The first vote is untouched.
type AlreadySubmittedError struct {
	Index basics.ProposalIndex
	Agent crypto.Digest
}

// Error satisfies builtin interface `error`
func (err AlreadySubmittedError) Error() string {
	return fmt.Sprintf("agent %v already predicted on proposal %d", err.Agent, err.Index)
}

// Is implements the errors.Is interface
func (err AlreadySubmittedError) Is(target error) bool {
	_, ok := target.(AlreadySubmittedError)
	return ok
}

// InsufficientPredictionsError is returned when a decision is evaluated
// before the proposal has collected enough predictions to decide from.
type InsufficientPredictionsError struct {
	Index  basics.ProposalIndex
	Have   uint64
	Quorum uint64
}

// Error satisfies builtin interface `error`
func (err InsufficientPredictionsError) Error() string {
	return fmt.Sprintf("proposal %d has %d predictions, needs %d to decide", err.Index, err.Have, err.Quorum)
}

// Is implements the errors.Is interface
func (err InsufficientPredictionsError) Is(target error) bool {
	_, ok := target.(InsufficientPredictionsError)
	return ok
}

// AlreadyDecidedError is returned when a decision is evaluated a second
// time. Evaluation is one-shot by guard, not a silent no-op.
type AlreadyDecidedError struct {
	Index basics.ProposalIndex
}

// Error satisfies builtin interface `error`
func (err AlreadyDecidedError) Error() string {
	return fmt.Sprintf("proposal %d is already decided", err.Index)
}

// Is implements the errors.Is interface
func (err AlreadyDecidedError) Is(target error) bool {
	_, ok := target.(AlreadyDecidedError)
	return ok
}

// DecisionPendingError is returned when an outcome is recorded against a
// proposal that has not been decided yet.
type DecisionPendingError struct {
	Index basics.ProposalIndex
}

// Error satisfies builtin interface `error`
func (err DecisionPendingError) Error() string {
	return fmt.Sprintf("proposal %d has no decision to record an outcome against", err.Index)
}

// Is implements the errors.Is interface
func (err DecisionPendingError) Is(target error) bool {
	_, ok := target.(DecisionPendingError)
	return ok
}

// AlreadyRecordedError is returned when an outcome is recorded twice. The
// first hash is untouched, whatever the second call carried.
type AlreadyRecordedError struct {
	Index basics.ProposalIndex
}

// Error satisfies builtin interface `error`
func (err AlreadyRecordedError) Error() string {
	return fmt.Sprintf("proposal %d already has a recorded outcome", err.Index)
}

// Is implements the errors.Is interface
func (err AlreadyRecordedError) Is(target error) bool {
	_, ok := target.(AlreadyRecordedError)
	return ok
}

// ZeroOutcomeError is returned when the outcome hash being recorded is the
// zero value. The zero hash is the "not recorded yet" sentinel, so storing
// it would make the proposal look unrecorded and break the write-once rule.
type ZeroOutcomeError struct {
	Index basics.ProposalIndex
}

// Error satisfies builtin interface `error`
func (err ZeroOutcomeError) Error() string {
	return fmt.Sprintf("outcome hash for proposal %d must not be zero", err.Index)
}

// Is implements the errors.Is interface
func (err ZeroOutcomeError) Is(target error) bool {
	_, ok := target.(ZeroOutcomeError)
	return ok
}
