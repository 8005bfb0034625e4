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

// This tool converts between msgpack and JSON encoding, using the same
// codec configuration the node itself encodes with. It is handy for
// inspecting journal records, signed submission envelopes, and anything
// else the node writes as msgpack.
//
// Binary data is rendered as base64 strings on the JSON side (the go-codec
// default). The conversion is therefore not guaranteed to round-trip
// byte-for-byte: JSON cannot distinguish a string that happened to be valid
// base64 from binary data, and zero values elided by omitempty at encode
// time stay elided.

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/algorand/go-codec/codec"

	"github.com/algorand/go-arbiter/protocol"
)

var mpToJSON = flag.Bool("d", false, "Decode msgpack to JSON")
var jsonToMp = flag.Bool("e", false, "Encode msgpack from JSON")
var strictJSON = flag.Bool("strict", false, "Strict JSON decode: turn all keys into strings")

func main() {
	flag.Parse()
	if *mpToJSON && *jsonToMp {
		fmt.Fprintf(os.Stderr, "Cannot specify both -d and -e\n")
		os.Exit(1)
	}
	if !*mpToJSON && !*jsonToMp {
		fmt.Fprintf(os.Stderr, "Must specify either -d or -e\n")
		flag.Usage()
		os.Exit(1)
	}

	var dec *codec.Decoder
	var enc *codec.Encoder
	if *mpToJSON {
		dec = codec.NewDecoder(os.Stdin, protocol.CodecHandle)
		enc = codec.NewEncoder(os.Stdout, protocol.JSONHandle)
	} else {
		jsonHandle := protocol.JSONHandle
		if *strictJSON {
			jsonHandle = protocol.JSONStrictHandle
		}
		dec = codec.NewDecoder(os.Stdin, jsonHandle)
		enc = codec.NewEncoder(os.Stdout, protocol.CodecHandle)
	}

	for {
		var obj interface{}
		err := dec.Decode(&obj)
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decode error: %v\n", err)
			os.Exit(1)
		}

		err = enc.Encode(obj)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Encode error: %v\n", err)
			os.Exit(1)
		}

		if *mpToJSON {
			fmt.Println()
		}
	}
}
