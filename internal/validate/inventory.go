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

// Package validate scans a package's staged install tree for ELF binaries
// and shebang scripts, infers their runtime dependencies via a package
// file map, and renders the corrective commands as a deterministic shell
// command stream (spec.md §4.G).
package validate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/acacialinux/tooling/internal/errs"
)

// Inventory walks dataDir (normally $PKG_INSTALL_DIR, which is itself the
// package's data/ directory) and returns
// every regular file's path relative to dataDir, sorted so that dependency
// inference runs in a stable, repeatable order (spec.md §4.G: "given
// identical inputs, emitted commands are byte-identical").
func Inventory(dataDir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errs.New(errs.KindIoError, "validate", map[string]string{"path": dataDir}, err)
	}
	sort.Strings(files)
	return files, nil
}
