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

package config

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"

	"github.com/algorand/go-arbiter/protocol"
)

// ArbitrationParams specifies settings that might vary based on the
// particular version of the arbitration protocol.
type ArbitrationParams struct {
	// Upgrade handling. ApprovedUpgrades describes the params versions this
	// implementation will accept when asked to move off the current version,
	// along with a delay value in journal entries. A delay of zero means the
	// upgrade applies as soon as it is announced.
	//
	// The maximum length of a params version string is MaxVersionStringLen.
	ApprovedUpgrades    map[protocol.ParamsVersion]uint64
	MaxVersionStringLen int

	// ReputationFloor is the score an agent is reset to when a penalty
	// larger than its current reputation is applied. The underflow resets
	// to this floor rather than clamping at zero, so one oversized penalty
	// cannot zero an agent out.
	ReputationFloor uint64

	// DefaultInitialReputation is the reputation assigned to a newly
	// registered agent when the caller does not supply one.
	DefaultInitialReputation uint64

	// MinPredictionQuorum is the minimum number of recorded predictions a
	// proposal needs before a decision can be evaluated against it.
	MinPredictionQuorum uint64

	// MaxLabelBytes bounds the length of an agent's human-readable label,
	// enforced at the submission boundary before the engine runs.
	MaxLabelBytes int

	// MaxConfigPayloadBytes bounds the size of a proposal's opaque
	// configuration payload, enforced at the submission boundary.
	MaxConfigPayloadBytes int

	// EnforceDecisionDeadline makes the engine compare a proposal's age
	// against its decision window when accepting predictions. With the flag
	// off the window is carried in storage but never checked.
	EnforceDecisionDeadline bool
}

// ArbitrationProtocols defines a set of supported params versions and their
// corresponding parameters.
type ArbitrationProtocols map[protocol.ParamsVersion]ArbitrationParams

// Params tracks the protocol-level settings for different versions of the
// arbitration protocol.
var Params ArbitrationProtocols

// DeepCopy creates a deep copy of an arbitration protocols map.
func (ap ArbitrationProtocols) DeepCopy() ArbitrationProtocols {
	staticParams := make(ArbitrationProtocols)
	for paramsVersion, params := range ap {
		// recreate the ApprovedUpgrades map since we don't want to modify the original one.
		params.ApprovedUpgrades = maps.Clone(params.ApprovedUpgrades)
		staticParams[paramsVersion] = params
	}
	return staticParams
}

// Merge merges configurable params on top of the existing protocols map and
// returns a new map without modifying any of the incoming structures.
func (ap ArbitrationProtocols) Merge(configurableParams ArbitrationProtocols) ArbitrationProtocols {
	staticParams := ap.DeepCopy()

	for paramsVersion, params := range configurableParams {
		if params.ApprovedUpgrades == nil {
			// if we were provided with empty ArbitrationParams, delete the existing reference to this params version
			for cVer, cParam := range staticParams {
				if cVer == paramsVersion {
					delete(staticParams, cVer)
				} else if _, has := cParam.ApprovedUpgrades[paramsVersion]; has {
					// delete upgrade to deleted version
					delete(cParam.ApprovedUpgrades, paramsVersion)
				}
			}
		} else {
			// need to add/update entry
			staticParams[paramsVersion] = params
		}
	}

	return staticParams
}

// SaveConfigurableParams saves the configurable params file to the provided data directory.
func SaveConfigurableParams(dataDirectory string, params ArbitrationProtocols) error {
	paramsPath := filepath.Join(dataDirectory, ConfigurableParamsFilename)

	encodedParams, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return os.WriteFile(paramsPath, encodedParams, 0644)
}

// LoadConfigurableParams loads the configurable params from the data directory
// and installs them as the global Params map.
func LoadConfigurableParams(dataDirectory string) error {
	newParams, err := PreloadConfigurableParams(dataDirectory)
	if err != nil {
		return err
	}
	if newParams != nil {
		Params = newParams
	}
	return nil
}

// PreloadConfigurableParams loads the configurable params from the data
// directory and merges them with a copy of the Params map. Then, it returns
// the merged map to the caller.
func PreloadConfigurableParams(dataDirectory string) (ArbitrationProtocols, error) {
	paramsPath := filepath.Join(dataDirectory, ConfigurableParamsFilename)
	file, err := os.Open(paramsPath)

	if err != nil {
		if os.IsNotExist(err) {
			// this file is not required, only optional. if it's missing, no harm is done.
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	configurableParams := make(ArbitrationProtocols)

	decoder := json.NewDecoder(file)
	err = decoder.Decode(&configurableParams)
	if err != nil {
		return nil, err
	}
	return Params.Merge(configurableParams), nil
}

// initArbitrationProtocols defines the params values and how values change across
// different versions of the protocol.
//
// These are the only valid and tested params values and transitions. Other
// settings are not tested and may lead to unexpected behavior.
func initArbitrationProtocols() {
	// WARNING: copying ArbitrationParams by value into a new variable does
	// not copy the ApprovedUpgrades map. Make sure that each new
	// ArbitrationParams structure gets a fresh ApprovedUpgrades map.

	// Base params version, v1.
	v1 := ArbitrationParams{
		MaxVersionStringLen: 64,

		ReputationFloor:          100,
		DefaultInitialReputation: 1000,
		MinPredictionQuorum:      1,

		MaxLabelBytes:         64,
		MaxConfigPayloadBytes: 4096,

		ApprovedUpgrades: map[protocol.ParamsVersion]uint64{},
	}
	Params[protocol.ParamsV1] = v1

	// v2 raises the payload bound to make room for full configuration
	// documents rather than plain keys.
	v2 := v1
	v2.ApprovedUpgrades = map[protocol.ParamsVersion]uint64{}
	v2.MaxConfigPayloadBytes = 64 * 1024
	v2.MaxLabelBytes = 256
	Params[protocol.ParamsV2] = v2
	v1.ApprovedUpgrades[protocol.ParamsV2] = 0

	// ParamsFuture is used to test features that are implemented but not
	// yet released. Not approved as an upgrade target from any version.
	vFuture := v2
	vFuture.ApprovedUpgrades = map[protocol.ParamsVersion]uint64{}
	vFuture.EnforceDecisionDeadline = true
	Params[protocol.ParamsFuture] = vFuture
}

func init() {
	Params = make(ArbitrationProtocols)

	initArbitrationProtocols()
}
