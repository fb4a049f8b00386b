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

// Package walk implements the two binary walk-instruction formats used to
// encode filesystem hierarchies by reference to stored blobs: the
// recursive Tree format (magic ALTR) and the linear, VWD-carrying Index
// format (magic AIDX). See spec.md §3 and §4.C.
package walk

import (
	"strings"

	"github.com/acacialinux/tooling/internal/errs"
)

// validateName refuses any name containing a path separator or equal to
// "." or "..", the escape guard required for every Tree/Index entry and
// for Invariant 6 in spec.md §8.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return errs.New(errs.KindIndexEscape, "walk", map[string]string{"name": name}, nil)
	}
	if strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return errs.New(errs.KindIndexEscape, "walk", map[string]string{"name": name}, nil)
	}
	return nil
}
