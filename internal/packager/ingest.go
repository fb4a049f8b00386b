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

// Package packager implements component H: it writes package.toml,
// populates the link/ directory of resolved runtime dependencies, and
// ingests the staged package contents into the object store as a Tree
// plus a final Package object (spec.md §4.H).
package packager

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/object"
	"github.com/acacialinux/tooling/internal/walk"
)

// xzThreshold is the size above which a file is compressed with xz by
// default, per the file-type policy named in spec.md §4.H ("xz as
// default for large binaries"); small files are stored uncompressed since
// xz's own container overhead would dominate.
const xzThreshold = 4096

// IngestDataDir recursively ingests dataDir into the object store as a
// tree of Tree objects (spec.md §4.H step 3), returning the root Tree's
// OID. Regular files become File entries (object payload ingested per the
// compression policy), symlinks become Symlink entries, and
// subdirectories become Subtree entries pointing at their own
// recursively-ingested Tree object.
func IngestDataDir(store *object.Store, dataDir string) (object.OID, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return object.OID{}, errs.New(errs.KindIoError, "packager", map[string]string{"path": dataDir}, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	treeEntries := make([]walk.TreeEntry, 0, len(names))
	for _, name := range names {
		full := filepath.Join(dataDir, name)
		info, err := os.Lstat(full)
		if err != nil {
			return object.OID{}, errs.New(errs.KindIoError, "packager", map[string]string{"path": full}, err)
		}

		uid, gid := ownership(info)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return object.OID{}, errs.New(errs.KindIoError, "packager", map[string]string{"path": full}, err)
			}
			treeEntries = append(treeEntries, walk.TreeEntry{
				Kind: walk.EntrySymlink, Name: name, Target: target,
				UID: uid, GID: gid, Mode: uint32(info.Mode().Perm()),
			})

		case info.IsDir():
			subOID, err := IngestDataDir(store, full)
			if err != nil {
				return object.OID{}, err
			}
			treeEntries = append(treeEntries, walk.TreeEntry{
				Kind: walk.EntrySubtree, Name: name, OID: subOID,
				UID: uid, GID: gid, Mode: uint32(info.Mode().Perm()),
			})

		default:
			oid, err := ingestFile(store, full, info)
			if err != nil {
				return object.OID{}, err
			}
			treeEntries = append(treeEntries, walk.TreeEntry{
				Kind: walk.EntryFile, Name: name, OID: oid,
				UID: uid, GID: gid, Mode: uint32(info.Mode().Perm()),
			})
		}
	}

	treeBytes, err := walk.EncodeTree(treeEntries)
	if err != nil {
		return object.OID{}, err
	}
	return store.PutBytes(treeBytes, object.ClassAcacia, object.TypeUnknown, nil, object.CompressionNone, false)
}

func ingestFile(store *object.Store, path string, info os.FileInfo) (object.OID, error) {
	compression := object.CompressionNone
	if info.Size() > xzThreshold {
		compression = object.CompressionXZ
	}
	return store.Put(path, object.ClassAcacia, object.TypeUnknown, nil, compression, false)
}

