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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/test/partitiontest"
)

func keyedIdentity(t *testing.T) (*crypto.SignatureSecrets, crypto.Digest) {
	t.Helper()
	var seed crypto.Seed
	crypto.RandBytes(seed[:])
	secrets := crypto.GenerateSignatureSecrets(seed)
	return secrets, crypto.Digest(secrets.SignatureVerifier)
}

func TestSignedProposalVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	secrets, identity := keyedIdentity(t)
	sub := ProposalSubmission{
		Proposer:       identity,
		Config:         []byte("threshold=5"),
		PredictedValue: 7,
	}
	sp := SignedProposal{Submission: sub, Sig: secrets.Sign(sub)}
	require.True(t, sp.Verify())

	// tampering with the body breaks the signature
	tampered := sp
	tampered.Submission.PredictedValue = 8
	require.False(t, tampered.Verify())

	// a signature from a different key does not verify against the
	// proposer named in the body
	other, _ := keyedIdentity(t)
	forged := SignedProposal{Submission: sub, Sig: other.Sign(sub)}
	require.False(t, forged.Verify())
}

func TestSignedPredictionVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	secrets, identity := keyedIdentity(t)
	pred := Prediction{Proposal: 2, Agent: identity, Support: true}
	sp := SignedPrediction{Prediction: pred, Sig: secrets.Sign(pred)}
	require.True(t, sp.Verify())

	tampered := sp
	tampered.Prediction.Support = false
	require.False(t, tampered.Verify())
}

func TestSignedOutcomeVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	secrets, identity := keyedIdentity(t)
	att := OutcomeAttestation{
		Proposal: 2,
		Attestor: identity,
		Hash:     crypto.Hash([]byte("applied")),
	}
	so := SignedOutcome{Attestation: att, Sig: secrets.Sign(att)}
	require.True(t, so.Verify())

	tampered := so
	tampered.Attestation.Hash = crypto.Hash([]byte("supposedly applied"))
	require.False(t, tampered.Verify())
}

func TestProposalPhaseMethod(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	var prop Proposal
	require.Equal(t, Created, prop.Phase(0))
	require.Equal(t, AwaitingDecision, prop.Phase(2))

	prop.Decided = true
	require.Equal(t, Decided, prop.Phase(2))

	prop.OutcomeHash = crypto.Hash([]byte("outcome"))
	require.Equal(t, Recorded, prop.Phase(2))
}
