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

package codecs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

type testValue struct {
	Bool   bool
	String string
	Int    int
}

func TestIsDefaultValue(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	v := testValue{
		Bool:   true,
		String: "default",
		Int:    1,
	}
	def := testValue{
		Bool:   true,
		String: "default",
		Int:    2,
	}

	objectValues := createValueMap(v)
	defaultValues := createValueMap(def)

	a.True(isDefaultValue("Bool", objectValues, defaultValues))
	a.True(isDefaultValue("String", objectValues, defaultValues))
	a.False(isDefaultValue("Int", objectValues, defaultValues))
	a.False(isDefaultValue("Missing", objectValues, defaultValues))
}

func TestSaveObjectToFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	filename := filepath.Join(t.TempDir(), "obj.json")
	v := testValue{Bool: true, String: "one", Int: 1}
	a.NoError(SaveObjectToFile(filename, v, true))

	var loaded testValue
	a.NoError(LoadObjectFromFile(filename, &loaded))
	a.Equal(v, loaded)
}

func TestSaveNonDefaultValuesToFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	filename := filepath.Join(t.TempDir(), "obj.json")
	v := testValue{Bool: true, String: "modified", Int: 1}
	def := testValue{Bool: true, String: "default", Int: 1}

	a.NoError(SaveNonDefaultValuesToFile(filename, v, def, []string{"Int"}, true))

	content, err := os.ReadFile(filename)
	a.NoError(err)
	// modified value and always-include field are written, defaults are not
	a.Contains(string(content), "String")
	a.Contains(string(content), "Int")
	a.NotContains(string(content), "Bool")

	var loaded testValue
	a.NoError(LoadObjectFromFile(filename, &loaded))
	a.Equal("modified", loaded.String)
	a.Equal(1, loaded.Int)
}
