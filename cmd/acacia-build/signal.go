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

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/acacialinux/tooling/internal/executor"
)

// installSignalHandler wires SIGINT/SIGTERM to ctx.Cancel. Per the
// Design Note (spec.md §9), the process-wide signal handler's only duty
// is firing the channel; teardown itself runs through the ordinary
// Cancelled error path in buildOnePackage, not inside the handler.
func installSignalHandler(ctx *executor.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(ctx.Cancel)
	}()
}
