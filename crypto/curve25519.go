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

package crypto

import (
	"crypto/ed25519"
)

type (
	ed25519Signature  [64]byte
	ed25519PublicKey  [32]byte
	ed25519PrivateKey [64]byte
	ed25519Seed       [32]byte
)

// A Seed holds the entropy needed to generate cryptographic keys.
type Seed ed25519Seed

/* Classical signatures */

// A Signature is a cryptographic signature. It proves that a message was
// produced by a holder of a cryptographic secret.
type Signature ed25519Signature

// BlankSignature is an empty signature structure, containing nothing but zeroes
var BlankSignature = Signature{}

// Blank tests to see if the given signature contains only zeros
func (s *Signature) Blank() bool {
	return (*s) == BlankSignature
}

// A SignatureVerifier is used to identify the holder of SignatureSecrets
// and verify the authenticity of Signatures.
type SignatureVerifier = PublicKey

// PublicKey is an exported ed25519PublicKey
type PublicKey ed25519PublicKey

// PrivateKey is an exported ed25519PrivateKey
type PrivateKey ed25519PrivateKey

// IsZero returns true if the public key contains only zeros
func (v PublicKey) IsZero() bool {
	return v == PublicKey{}
}

// SignatureSecrets are used by an entity to produce unforgeable signatures over
// a message.
type SignatureSecrets struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	SignatureVerifier
	SK ed25519PrivateKey
}

func ed25519GenerateKey() (public ed25519PublicKey, secret ed25519PrivateKey) {
	var seed ed25519Seed
	RandBytes(seed[:])
	return ed25519GenerateKeySeed(seed)
}

func ed25519GenerateKeySeed(seed ed25519Seed) (public ed25519PublicKey, secret ed25519PrivateKey) {
	sk := ed25519.NewKeyFromSeed(seed[:])
	copy(secret[:], sk)
	copy(public[:], sk.Public().(ed25519.PublicKey))
	return
}

func ed25519Sign(secret ed25519PrivateKey, data []byte) (sig ed25519Signature) {
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(secret[:]), data))
	return
}

func ed25519Verify(public ed25519PublicKey, data []byte, sig ed25519Signature) bool {
	return ed25519ConsensusVerifySingle(public, data, sig)
}

// GenerateSignatureSecrets creates SignatureSecrets from a source of entropy.
func GenerateSignatureSecrets(seed Seed) *SignatureSecrets {
	pk0, sk := ed25519GenerateKeySeed(ed25519Seed(seed))
	pk := SignatureVerifier(pk0)
	return &SignatureSecrets{SignatureVerifier: pk, SK: sk}
}

// Sign produces a cryptographic Signature of a Hashable message, given
// cryptographic secrets.
func (s *SignatureSecrets) Sign(message Hashable) Signature {
	return s.SignBytes(HashRep(message))
}

// SignBytes signs a message directly, without first hashing.
// Caller is responsible for domain separation.
func (s *SignatureSecrets) SignBytes(message []byte) Signature {
	return Signature(ed25519Sign(s.SK, message))
}

// Verify verifies that some holder of a cryptographic secret authentically
// signed a Hashable message.
func (c SignatureVerifier) Verify(message Hashable, sig Signature) bool {
	return c.VerifyBytes(HashRep(message), sig)
}

// VerifyBytes verifies a signature, where the message is not hashed first.
// Caller is responsible for using a unique message format.
func (c SignatureVerifier) VerifyBytes(message []byte, sig Signature) bool {
	return ed25519Verify(ed25519PublicKey(c), message, ed25519Signature(sig))
}
