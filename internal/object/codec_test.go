/*******************************************************************************
*
* Copyright 2026 Acacia Linux contributors
*
* This file is part of Acacia Build.
*
* Acacia Build is free software: you can redistribute it and/or modify it
* under the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* Acacia Build is distributed in the hope that it will be useful, but WITHOUT
* ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
* FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for
* more details.
*
* You should have received a copy of the GNU General Public License along
* with Acacia Build. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("hello world\n")
	data, oid, err := Encode(ClassAcacia, TypeFormula, nil, payload, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, Sum(payload), oid)

	obj, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, payload, obj.Payload)
	require.Equal(t, oid, obj.OID)
	require.Equal(t, ClassAcacia, obj.Class)
	require.Equal(t, TypeFormula, obj.Type)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("not an object at all"))
	require.Error(t, err)
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	payload := []byte("x")
	data, _, err := Encode(ClassUnknown, TypeUnknown, nil, payload, CompressionNone)
	require.NoError(t, err)
	// corrupt the version byte (offset 4, right after the 4-byte magic)
	data[4] = 0x7f
	_, err = Decode(data)
	require.Error(t, err)
}

func TestDecodeRejectsHashMismatch(t *testing.T) {
	payload := []byte("original payload")
	data, _, err := Encode(ClassAcacia, TypePackage, nil, payload, CompressionNone)
	require.NoError(t, err)

	// flip a byte deep in the payload region without touching lengths
	data[len(data)-1] ^= 0xff
	_, err = Decode(data)
	require.Error(t, err)
}

func TestEncodeDecodeWithDependencies(t *testing.T) {
	dep := Link{OID: Sum([]byte("dependency payload")), Path: "lib/libfoo.so"}
	payload := []byte("package bytes")
	data, oid, err := Encode(ClassAcacia, TypePackage, []Link{dep}, payload, CompressionNone)
	require.NoError(t, err)

	obj, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, oid, obj.OID)
	require.Len(t, obj.Dependencies, 1)
	require.Equal(t, dep.OID, obj.Dependencies[0].OID)
	require.Equal(t, dep.Path, obj.Dependencies[0].Path)
}

func TestEmptyPayloadAndDependenciesAreValid(t *testing.T) {
	data, oid, err := Encode(ClassUnknown, TypeUnknown, nil, nil, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, Sum(nil), oid)

	obj, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, obj.Payload)
	require.Empty(t, obj.Dependencies)
}
