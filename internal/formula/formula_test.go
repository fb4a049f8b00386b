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

package formula

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleFormula = `
file_version = 1
name = "hello"
version = "1.0.0"
description = "a hello world package"
arch = ["x86_64"]
host_dependencies = ["gcc"]
prepare = "./configure"
build = "make"
check = "make check"
package = "make DESTDIR=$PKG_INSTALL_DIR install"

[[sources]]
url = "file:///tmp/hello.tar.gz"
dest = "hello-1.0.0"
extract = true
`

func writeFormula(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "formula.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidFormula(t *testing.T) {
	path := writeFormula(t, sampleFormula)
	f, errs := Load(path)
	require.Empty(t, errs)
	require.Equal(t, "hello", f.Name)
	require.Equal(t, "1.0.0", f.Version)
	require.True(t, f.SupportsArch("x86_64"))
	require.False(t, f.SupportsArch("armv7"))

	pkgs := f.ResolvePackages()
	require.Len(t, pkgs, 1)
	require.Equal(t, "make", pkgs[0].BuildCmd)
}

func TestLoadRejectsAbsoluteSourceDest(t *testing.T) {
	path := writeFormula(t, `
name = "bad"
version = "1.0.0"
arch = ["x86_64"]

[[sources]]
url = "file:///tmp/x.tar.gz"
dest = "/etc/passwd"
`)
	_, errs := Load(path)
	require.NotEmpty(t, errs)
}

func TestLoadRejectsEscapingSourceDest(t *testing.T) {
	path := writeFormula(t, `
name = "bad"
version = "1.0.0"
arch = ["x86_64"]

[[sources]]
url = "file:///tmp/x.tar.gz"
dest = "../../etc"
`)
	_, errs := Load(path)
	require.NotEmpty(t, errs)
}

func TestSubPackageInheritance(t *testing.T) {
	path := writeFormula(t, `
name = "parent"
version = "1.0.0"
description = "parent description"
arch = ["x86_64"]
extra_dependencies = ["base"]
build = "make"

[packages.parent]
extra_dependencies = ["runtime"]

[packages.parent-devel]
description = "development files"
extra_dependencies = ["dev-tools"]
`)
	f, errs := Load(path)
	require.Empty(t, errs)

	pkgs := f.ResolvePackages()
	require.Len(t, pkgs, 2)

	byName := map[string]ResolvedPackage{}
	for _, p := range pkgs {
		byName[p.Name] = p
	}

	parent := byName["parent"]
	require.True(t, parent.Inherited["description"])
	require.ElementsMatch(t, []string{"base", "runtime"}, parent.ExtraDependencies)
	require.Equal(t, "make", parent.BuildCmd)

	devel := byName["parent-devel"]
	require.False(t, devel.Inherited["description"])
	require.Equal(t, "development files", devel.Description)
	require.ElementsMatch(t, []string{"base", "dev-tools"}, devel.ExtraDependencies)
}
