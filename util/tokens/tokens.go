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

// Package tokens handles the REST API auth token files kept in the data
// directory.
package tokens

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/algorand/go-arbiter/crypto"
)

const (
	// ArbiterdTokenFilename is the name of the public REST API token file in the data directory
	ArbiterdTokenFilename = "arbiterd.token"
	// ArbiterdAdminTokenFilename is the name of the admin REST API token file in the data directory
	ArbiterdAdminTokenFilename = "arbiterd.admin.token"

	tokenByteLength = 32
)

func tokenFilepath(dataDir, filename string) string {
	return filepath.Join(dataDir, filename)
}

func writeAPITokenToDisk(dataDir, filename, token string) error {
	return os.WriteFile(tokenFilepath(dataDir, filename), []byte(token), 0600)
}

// GenerateAPIToken writes a cryptographically secure random token to the
// indicated file and returns it.
func GenerateAPIToken(dataDir string, filename string) (string, error) {
	tokenBytes := make([]byte, tokenByteLength)
	crypto.RandBytes(tokenBytes)
	token := fmt.Sprintf("%x", tokenBytes)
	return token, writeAPITokenToDisk(dataDir, filename, token)
}

// ValidateAPIToken returns a non-nil error if the token is not well-formed.
func ValidateAPIToken(token string) error {
	if len(token) != tokenByteLength*2 {
		return fmt.Errorf("API token length %d != expected %d", len(token), tokenByteLength*2)
	}
	_, err := hex.DecodeString(token)
	return err
}

// GetAndValidateAPIToken reads the token from the indicated file and
// validates it. The read token is returned even when invalid, so callers can
// report what they found.
func GetAndValidateAPIToken(dataDir, filename string) (string, error) {
	data, err := os.ReadFile(tokenFilepath(dataDir, filename))
	token := string(data)
	if err != nil {
		return token, err
	}
	return token, ValidateAPIToken(token)
}

// ValidateOrGenerateAPIToken reads and validates the token from the indicated
// file, generating a fresh one in its place if it is missing or malformed.
func ValidateOrGenerateAPIToken(dataDir, filename string) (apiToken string, wroteNewToken bool, err error) {
	apiToken, err = GetAndValidateAPIToken(dataDir, filename)
	if err != nil {
		apiToken, err = GenerateAPIToken(dataDir, filename)
		wroteNewToken = true
	}
	if err != nil {
		return "", false, err
	}
	return apiToken, wroteNewToken, nil
}
