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
	"os"

	"github.com/acacialinux/tooling/internal/errs"
)

// chown applies ownership to a materialized filesystem entry. Build roots
// are already running under the privilege section 4.E of the spec
// requires for mounts/chroot, so a direct os.Chown (unlike the teacher's
// cgo-wrapped chown(2), which existed only to dodge a fakeroot emulation
// layer this project does not use) is sufficient here.
func chown(path string, uid, gid uint32) error {
	if uid == 0 && gid == 0 {
		return nil
	}
	if err := os.Chown(path, int(uid), int(gid)); err != nil {
		return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
	}
	return nil
}
