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

// Package common defines models exposed by arbiterd rest api
package common

// BuildVersion defines model for the current build version information.
type BuildVersion struct {
	// required: true
	Major int `json:"major"`
	// required: true
	Minor int `json:"minor"`
	// required: true
	BuildNumber int `json:"build_number"`
	// required: true
	CommitHash string `json:"commit_hash"`
	// required: true
	Branch string `json:"branch"`
	// required: true
	Channel string `json:"channel"`
}

// Version contains the current arbiterd version.
//
// Note that we annotate this as a model so that legacy clients
// can directly import a swagger generated Version model.
// swagger:model Version
type Version struct {
	// required: true
	Versions []string `json:"versions"`
	// required: true
	Build BuildVersion `json:"build"`
}
