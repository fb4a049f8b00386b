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

func TestTreeEncodeDecodeRoundTrip(t *testing.T) {
	entries := []TreeEntry{
		{Kind: EntryFile, OID: object.Sum([]byte("hello")), UID: 0, GID: 0, Mode: 0644, Name: "hello.txt"},
		{Kind: EntrySymlink, UID: 0, GID: 0, Mode: 0777, Name: "link", Target: "hello.txt"},
		{Kind: EntrySubtree, OID: object.Sum([]byte("subtree payload")), UID: 0, GID: 0, Mode: 0755, Name: "sub"},
	}

	data, err := EncodeTree(entries)
	require.NoError(t, err)

	tree, err := DecodeTree(data)
	require.NoError(t, err)
	require.Equal(t, entries, tree.Entries)
}

func TestTreeRejectsDuplicateNames(t *testing.T) {
	entries := []TreeEntry{
		{Kind: EntryFile, OID: object.Sum([]byte("a")), Name: "dup"},
		{Kind: EntryFile, OID: object.Sum([]byte("b")), Name: "dup"},
	}
	_, err := EncodeTree(entries)
	require.Error(t, err)
}

func TestTreeRejectsEscapingNames(t *testing.T) {
	for _, name := range []string{"..", ".", "a/b", "a\\b"} {
		_, err := EncodeTree([]TreeEntry{{Kind: EntryFile, Name: name}})
		require.Errorf(t, err, "expected name %q to be rejected", name)
	}
}

func TestTreeDecodeRejectsBadMagic(t *testing.T) {
	_, err := DecodeTree([]byte("definitely not a tree"))
	require.Error(t, err)
}
