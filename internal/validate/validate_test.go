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

package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acacialinux/tooling/internal/pkgindex"
)

type fakeResolver struct {
	byPath map[string]*pkgindex.InstalledPackage
}

func (r *fakeResolver) Lookup(path string) (*pkgindex.InstalledPackage, bool) {
	pkg, ok := r.byPath[path]
	return pkg, ok
}

func newFakePackage(name, root string) *pkgindex.InstalledPackage {
	return &pkgindex.InstalledPackage{
		Entry: pkgindex.Entry{Name: name, Version: "1.0", Arch: "x86_64"},
		Root:  root,
	}
}

func TestSniffClassifiesELFAndScript(t *testing.T) {
	dir := t.TempDir()

	elfPath := filepath.Join(dir, "binary")
	require.NoError(t, os.WriteFile(elfPath, append([]byte{0x7f, 'E', 'L', 'F'}, []byte("rest")...), 0755))
	kind, err := Sniff(elfPath)
	require.NoError(t, err)
	require.Equal(t, KindELF, kind)

	scriptPath := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/bin/sh\necho hi\n"), 0755))
	kind, err = Sniff(scriptPath)
	require.NoError(t, err)
	require.Equal(t, KindScript, kind)

	plainPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("just text"), 0644))
	kind, err = Sniff(plainPath)
	require.NoError(t, err)
	require.Equal(t, KindUnclassified, kind)
}

func TestReadShebangExtractsInterpreter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/bash\necho hi\n"), 0755))

	interp, err := ReadShebang(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/bash", interp)
}

func TestReadShebangReturnsEmptyWithoutShebang(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo hi\n"), 0644))

	interp, err := ReadShebang(path)
	require.NoError(t, err)
	require.Equal(t, "", interp)
}

func TestValidateRewritesScriptShebang(t *testing.T) {
	dataDir := t.TempDir()
	scriptPath := filepath.Join(dataDir, "bin", "run.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(scriptPath), 0755))
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/usr/bin/bash\necho hi\n"), 0755))

	bashPkg := newFakePackage("bash", "/dist/x86_64/bash/1.0")
	resolver := &fakeResolver{byPath: map[string]*pkgindex.InstalledPackage{
		"usr/bin/bash": bashPkg,
	}}

	report, err := Validate(dataDir, resolver)
	require.NoError(t, err)
	require.Len(t, report.Actions, 1)
	require.Equal(t, ActionRewriteShebang, report.Actions[0].Kind)
	require.Equal(t, "/dist/x86_64/bash/1.0/link/bash", report.Actions[0].LinkPath)
	require.Len(t, report.Dependencies, 1)
	require.Equal(t, "bash", report.Dependencies[0].Package.Entry.Name)
}

func TestValidateSkipsUnresolvableShebang(t *testing.T) {
	dataDir := t.TempDir()
	scriptPath := filepath.Join(dataDir, "run.sh")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/no/such/interp\n"), 0755))

	resolver := &fakeResolver{byPath: map[string]*pkgindex.InstalledPackage{}}
	report, err := Validate(dataDir, resolver)
	require.NoError(t, err)
	require.Empty(t, report.Actions)
	require.Empty(t, report.Dependencies)
}

func TestActionShellRendersExpectedCommands(t *testing.T) {
	interp := Action{Kind: ActionSetInterpreter, File: "bin/prog", LinkPath: "/dist/x86_64/glibc/2.0/link/ld-linux.so.2"}
	require.Equal(t, "patchelf --set-interpreter /dist/x86_64/glibc/2.0/link/ld-linux.so.2 bin/prog", interp.Shell())

	needed := Action{Kind: ActionReplaceNeeded, File: "bin/prog", Soname: "libc.so.6", LinkPath: "/dist/x86_64/glibc/2.0/link/libc.so.6"}
	require.Equal(t, "patchelf --replace-needed libc.so.6 /dist/x86_64/glibc/2.0/link/libc.so.6 bin/prog", needed.Shell())

	shebang := Action{Kind: ActionRewriteShebang, File: "bin/run.sh", LinkPath: "/dist/x86_64/bash/1.0/link/bash"}
	require.Equal(t, "sed -i '1s|^#!.*|#!/dist/x86_64/bash/1.0/link/bash|' bin/run.sh", shebang.Shell())
}

func TestInventoryIsSortedAndSkipsDirs(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "z.txt"), []byte("z"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "b", "c.txt"), []byte("c"), 0644))

	files, err := Inventory(dataDir)
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", filepath.Join("b", "c.txt"), "z.txt"}, files)
}
