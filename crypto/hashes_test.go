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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestHashFactoryCreatingNewHashes(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	h := HashFactory{HashType: Sha512_256}.NewHash()
	a.NotNil(h)
	a.Equal(Sha512_256Size, h.Size())

	h = HashFactory{HashType: Sumhash}.NewHash()
	a.NotNil(h)
	a.Equal(SumhashDigestSize, h.Size())

	h = HashFactory{HashType: Sha256}.NewHash()
	a.NotNil(h)
	a.Equal(Sha256Size, h.Size())
}

func TestHashFactoryRejectsInvalidTypes(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	f := HashFactory{HashType: MaxHashType}
	a.Error(f.Validate())

	invalid := f.NewHash()
	a.Equal(0, invalid.Size())
	_, err := invalid.Write([]byte{1})
	a.Error(err)
}

func TestHashTypeRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	for _, ht := range []HashType{Sha512_256, Sumhash, Sha256} {
		recovered, err := UnmarshalHashType(ht.String())
		a.NoError(err)
		a.Equal(ht, recovered)
	}

	_, err := UnmarshalHashType("sha3")
	a.Error(err)
}

func TestGenericHashObj(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	msg := TestingHashable{data: []byte("fingerprint")}

	h1 := GenericHashObj(HashFactory{HashType: Sha512_256}.NewHash(), msg)
	a.Len(h1, Sha512_256Size)

	asDigest := HashObj(msg)
	a.Equal(asDigest[:], h1)

	h2 := GenericHashObj(HashFactory{HashType: Sumhash}.NewHash(), msg)
	a.Len(h2, SumhashDigestSize)
	a.NotEqual(h1, h2[:Sha512_256Size])
}
