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

package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acacialinux/tooling/internal/object"
	"github.com/acacialinux/tooling/internal/pkgindex"
	"github.com/acacialinux/tooling/internal/validate"
)

func TestIngestDataDirRoundTrips(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "bin", "hello"), []byte("binary content"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "README"), []byte("hi"), 0644))
	require.NoError(t, os.Symlink("hello", filepath.Join(dataDir, "bin", "hello-link")))

	store := object.NewStore(t.TempDir())
	treeOID, err := IngestDataDir(store, dataDir)
	require.NoError(t, err)
	require.False(t, treeOID.IsZero())

	obj, err := store.Get(treeOID)
	require.NoError(t, err)
	require.Equal(t, object.ClassAcacia, obj.Class)
	require.Equal(t, object.TypeUnknown, obj.Type)
}

func TestIngestDataDirIsIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a"), []byte("content"), 0644))

	store := object.NewStore(t.TempDir())
	first, err := IngestDataDir(store, dataDir)
	require.NoError(t, err)
	second, err := IngestDataDir(store, dataDir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildLinkDirCreatesSymlinks(t *testing.T) {
	linkDir := filepath.Join(t.TempDir(), "link")
	deps := []validate.Dependency{
		{
			Package: &pkgindex.InstalledPackage{Entry: pkgindex.Entry{Name: "glibc", Version: "2.0", Arch: "x86_64"}},
			Path:    "lib/libc.so.6",
			Soname:  "libc.so.6",
		},
	}

	require.NoError(t, BuildLinkDir(linkDir, "/dist", deps))

	linkPath := filepath.Join(linkDir, "libc.so.6")
	target, err := os.Readlink(linkPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/dist", "x86_64", "glibc", "2.0", "lib/libc.so.6"), target)
}

func TestPackageProducesPackageObjectAndMetadata(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "bin"), []byte("x"), 0755))

	packageRoot := t.TempDir()
	linkDir := filepath.Join(packageRoot, "link")

	store := object.NewStore(t.TempDir())
	result, err := Package(store, Options{
		DataDir:     dataDir,
		LinkDir:     linkDir,
		DistDir:     "/dist",
		Name:        "hello",
		Version:     "1.0",
		Description: "a hello package",
		Arch:        "x86_64",
		Maintainer:  "nobody",
		BuildID:     "build-1",
	})
	require.NoError(t, err)
	require.False(t, result.PackageOID.IsZero())
	require.False(t, result.TreeOID.IsZero())

	obj, err := store.Get(result.PackageOID)
	require.NoError(t, err)
	require.Equal(t, object.TypePackage, obj.Type)
	require.Len(t, obj.Dependencies, 1)
	require.Equal(t, result.TreeOID, obj.Dependencies[0].OID)

	require.FileExists(t, filepath.Join(packageRoot, "package.toml"))
	require.Equal(t, result.PackageOID.String(), result.Metadata.OID)
}
