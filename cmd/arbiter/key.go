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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/algorand/go-arbiter/crypto"
)

var keyFilename string

func init() {
	keyCmd.AddCommand(generateKeyCmd)
	keyCmd.AddCommand(keyInfoCmd)

	generateKeyCmd.Flags().StringVarP(&keyFilename, "keyfile", "f", "", "File to write the private key seed to")
	generateKeyCmd.MarkFlagRequired("keyfile")

	keyInfoCmd.Flags().StringVarP(&keyFilename, "keyfile", "f", "", "Key file to inspect")
	keyInfoCmd.MarkFlagRequired("keyfile")
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage agent signing keys",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

// loadKeyfile reads a 32 byte seed from the named file and derives the
// signing secrets from it.
func loadKeyfile(keyfile string) *crypto.SignatureSecrets {
	if keyfile == "" {
		reportErrorln(errorIdentityRequired)
	}
	seedbytes, err := os.ReadFile(keyfile)
	if err != nil {
		reportErrorf(errorKeyRead, keyfile, err)
	}
	var seed crypto.Seed
	copy(seed[:], seedbytes)
	return crypto.GenerateSignatureSecrets(seed)
}

var generateKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new agent signing key",
	Long:  "Generate a fresh ed25519 signing key and write its seed to --keyfile. The printed identity digest is what gets registered on the agent roster.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(keyFilename); err == nil {
			reportErrorf(errorKeyExists, keyFilename)
		}
		var seed crypto.Seed
		crypto.RandBytes(seed[:])
		secrets := crypto.GenerateSignatureSecrets(seed)
		err := os.WriteFile(keyFilename, seed[:], 0600)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoKeyGenerated, crypto.Digest(secrets.SignatureVerifier), keyFilename)
	},
}

var keyInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the identity digest of a key file",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		secrets := loadKeyfile(keyFilename)
		fmt.Printf("Identity: %s\n", crypto.Digest(secrets.SignatureVerifier))
	},
}
