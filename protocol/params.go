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

package protocol

// ParamsVersion identifies a version of the arbitration protocol rules.
// The rules for each version live in config.ArbitrationParams.
type ParamsVersion string

const (
	// ParamsV1 is the initial protocol version.
	ParamsV1 = ParamsVersion("v1")

	// ParamsV2 raises the configuration payload bound and pins the
	// reputation recovery floor as a parameter rather than a constant.
	ParamsV2 = ParamsVersion("v2")

	// ParamsFuture is a protocol that should not appear in any production
	// deployment, and should be used to test future features.
	ParamsFuture = ParamsVersion("future")

	// ParamsCurrentVersion is the latest version and should be used
	// when a specific version is not provided.
	ParamsCurrentVersion = ParamsV2
)

// Error is used to indicate that an unsupported protocol has been detected.
type Error ParamsVersion

// Error satisfies builtin interface `error`
func (err Error) Error() string {
	return "protocol not supported: " + string(err)
}
