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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	raw := []byte("hello world\n")
	oid, err := store.PutBytes(raw, ClassAcacia, TypeFormula, nil, CompressionNone, false)
	require.NoError(t, err)

	obj, err := store.Get(oid)
	require.NoError(t, err)
	require.Equal(t, raw, obj.Payload)
}

func TestPutIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	raw := []byte("idempotent payload")
	oid1, err := store.PutBytes(raw, ClassAcacia, TypeFormula, nil, CompressionNone, false)
	require.NoError(t, err)
	oid2, err := store.PutBytes(raw, ClassAcacia, TypeFormula, nil, CompressionNone, false)
	require.NoError(t, err)
	require.Equal(t, oid1, oid2)

	shard := store.shardPath(oid1)
	require.FileExists(t, shard)
}

func TestGetMissingIsNotFound(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	_, err := store.Get(Sum([]byte("never written")))
	require.Error(t, err)
}

func TestPullRecursiveReachesFixedPoint(t *testing.T) {
	peerDir := t.TempDir()
	peer := NewStore(peerDir)

	leafRaw := []byte("leaf payload")
	leafOID, err := peer.PutBytes(leafRaw, ClassAcacia, TypeUnknown, nil, CompressionNone, false)
	require.NoError(t, err)

	rootRaw := []byte("root payload")
	rootOID, err := peer.PutBytes(rootRaw, ClassAcacia, TypePackage, []Link{{OID: leafOID, Path: "lib/leaf"}}, CompressionNone, false)
	require.NoError(t, err)

	localDir := t.TempDir()
	local := NewStore(localDir)

	fetched, err := local.Pull(peer, rootOID, true)
	require.NoError(t, err)
	require.True(t, fetched[rootOID])
	require.True(t, fetched[leafOID])
	require.True(t, local.Has(rootOID))
	require.True(t, local.Has(leafOID))

	// re-pulling is a no-op: nothing new fetched
	fetched2, err := local.Pull(peer, rootOID, true)
	require.NoError(t, err)
	require.Empty(t, fetched2)
}

func TestShardPathIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	oid := Sum([]byte("x"))
	p1 := store.shardPath(oid)
	p2 := store.shardPath(oid)
	require.Equal(t, p1, p2)
	require.Equal(t, filepath.Join(dir, "objects", oid.String()[:2], oid.String()[2:]), p1)
}
