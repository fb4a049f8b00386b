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

//go:build unix

package packager

import (
	"os"
	"syscall"
)

// ownership reads the owning uid/gid from a file's platform-specific stat
// info, mirroring pkgindex's inode_unix.go/inode_other.go split for the
// same reason: no portable stdlib accessor exists for this.
func ownership(info os.FileInfo) (uid, gid uint32) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Uid, st.Gid
	}
	return 0, 0
}
