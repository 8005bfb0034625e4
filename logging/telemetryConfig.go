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

package logging

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TelemetryConfigFilename default file name for telemetry config "logging.config"
var TelemetryConfigFilename = "logging.config"

const hostNameLength = 255

// createTelemetryConfig creates a new TelemetryConfig structure with a generated GUID.
// Telemetry is disabled until the operator opts in; no upload credentials are shipped.
func createTelemetryConfig() TelemetryConfig {
	enable := false

	return TelemetryConfig{
		Enable:             enable,
		GUID:               uuid.New().String(),
		URI:                "",
		MinLogLevel:        logrus.WarnLevel,
		ReportHistoryLevel: logrus.WarnLevel,
	}
}

// MarshalingTelemetryConfig is used for json serialization of the TelemetryConfig
// so the log levels are stored as their numeric values rather than the
// logrus text form.
type MarshalingTelemetryConfig struct {
	TelemetryConfig

	MinLogLevel        uint32
	ReportHistoryLevel uint32
}

// Save writes the TelemetryConfig to the config file
func (cfg TelemetryConfig) Save(configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// FilePath is determined by where the config was loaded from, it is
	// not persisted.
	cfg.FilePath = ""
	marshaled := MarshalingTelemetryConfig{
		TelemetryConfig:    cfg,
		MinLogLevel:        uint32(cfg.MinLogLevel),
		ReportHistoryLevel: uint32(cfg.ReportHistoryLevel),
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	return enc.Encode(marshaled)
}

// getHostName returns the HostName for telemetry (Name:GUID -- Name: is optional if blank)
func (cfg TelemetryConfig) getHostName() string {
	hostName := cfg.GUID
	if cfg.Enable && len(cfg.Name) > 0 {
		hostName = cfg.Name + ":" + cfg.GUID
	}
	return hostName
}

// getInstanceName allows us to distinguish between multiple instances running on the same node.
func (cfg TelemetryConfig) getInstanceName() string {
	p, _ := os.Getwd()
	hash := sha256.Sum256([]byte(p))
	pathHash := base64.StdEncoding.EncodeToString(hash[:])
	return pathHash[:16]
}

// SanitizeTelemetryString applies sanitization rules and returns the sanitized string.
func SanitizeTelemetryString(input string, maxParts int) string {
	// Truncate to a reasonable size, allowing some undefined separator.
	maxReasonableSize := maxParts*hostNameLength + maxParts - 1
	if len(input) > maxReasonableSize {
		input = input[:maxReasonableSize]
	}
	return input
}

// TelemetryOverride overrides the loaded Enable value from the
// environment: "1" or "true" enables telemetry, "0" or "false" disables
// it, anything else leaves the loaded value alone. Returns the resulting
// Enable value.
func TelemetryOverride(env string, telemetryConfig *TelemetryConfig) bool {
	env = strings.ToLower(env)
	if env == "1" || env == "true" {
		telemetryConfig.Enable = true
	}
	if env == "0" || env == "false" {
		telemetryConfig.Enable = false
	}
	return telemetryConfig.Enable
}

// LoadTelemetryConfig loads the TelemetryConfig from the config file
func LoadTelemetryConfig(path string) (TelemetryConfig, error) {
	return loadTelemetryConfig(path)
}

func loadTelemetryConfig(path string) (TelemetryConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return createTelemetryConfig(), err
	}
	defer f.Close()

	var marshaled MarshalingTelemetryConfig
	marshaled.TelemetryConfig = createTelemetryConfig()
	marshaled.MinLogLevel = uint32(marshaled.TelemetryConfig.MinLogLevel)
	marshaled.ReportHistoryLevel = uint32(marshaled.TelemetryConfig.ReportHistoryLevel)
	dec := json.NewDecoder(f)
	err = dec.Decode(&marshaled)
	if err != nil {
		return createTelemetryConfig(), err
	}

	cfg := marshaled.TelemetryConfig
	cfg.MinLogLevel = logrus.Level(marshaled.MinLogLevel)
	cfg.ReportHistoryLevel = logrus.Level(marshaled.ReportHistoryLevel)
	cfg.FilePath = path
	return cfg, nil
}
