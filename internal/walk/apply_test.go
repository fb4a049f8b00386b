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

package walk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acacialinux/tooling/internal/object"
)

// TestApplyTreeMaterializesRecursiveSubtree covers a tree with one file and
// one subtree, which together must materialize as three filesystem
// entries: the top-level file, the subtree directory, and the file inside
// it (spec.md §8 property S3).
func TestApplyTreeMaterializesRecursiveSubtree(t *testing.T) {
	dir := t.TempDir()
	store := object.NewStore(t.TempDir())

	readmeOID, err := store.PutBytes([]byte("top level\n"), object.ClassAcacia, object.TypeUnknown, nil, object.CompressionNone, false)
	require.NoError(t, err)

	nestedOID, err := store.PutBytes([]byte("nested\n"), object.ClassAcacia, object.TypeUnknown, nil, object.CompressionNone, false)
	require.NoError(t, err)

	subtreeData, err := EncodeTree([]TreeEntry{
		{Kind: EntryFile, OID: nestedOID, Mode: 0644, Name: "inner.txt"},
	})
	require.NoError(t, err)
	subtreeOID, err := store.PutBytes(subtreeData, object.ClassAcacia, object.TypeUnknown, nil, object.CompressionNone, false)
	require.NoError(t, err)

	tree := &Tree{Entries: []TreeEntry{
		{Kind: EntryFile, OID: readmeOID, Mode: 0644, Name: "README"},
		{Kind: EntrySubtree, OID: subtreeOID, Mode: 0755, Name: "sub"},
	}}

	require.NoError(t, ApplyTree(tree, store, dir))

	top, err := readFile(dir + "/README")
	require.NoError(t, err)
	require.Equal(t, "top level\n", top)

	nested, err := readFile(dir + "/sub/inner.txt")
	require.NoError(t, err)
	require.Equal(t, "nested\n", nested)
}

func TestApplyTreeSurfacesMissingSubtreeObject(t *testing.T) {
	dir := t.TempDir()
	store := object.NewStore(t.TempDir())

	tree := &Tree{Entries: []TreeEntry{
		{Kind: EntrySubtree, OID: object.Sum([]byte("never stored")), Mode: 0755, Name: "sub"},
	}}

	err := ApplyTree(tree, store, dir)
	require.Error(t, err)
}
