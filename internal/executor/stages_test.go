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

package executor

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acacialinux/tooling/internal/buildenv"
	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/formula"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	work := t.TempDir()
	mounter := &buildenv.NoopMounter{}

	env, err := buildenv.Setup(buildenv.Options{
		BuildID:      "t1",
		WorkDir:      work,
		DepRoots:     []string{t.TempDir()},
		FormulaDir:   t.TempDir(),
		DistDir:      t.TempDir(),
		ToolchainDir: t.TempDir(),
		Mounter:      mounter,
	})
	require.NoError(t, err)

	f := &formula.Formula{Name: "pkg", Version: "1.0"}
	return NewContext("t1", f, "x86_64", nil, nil, env, t.TempDir())
}

func TestStageOverlayChainsUpperToLower(t *testing.T) {
	ctx := newTestContext(t)
	base := filepath.Join(ctx.Env.WorkDir, "overlay", ctx.ID, "stages")

	prepareUpper, err := stageOverlay(ctx, base, "prepare", "", nil)
	require.NoError(t, err)
	require.DirExists(t, prepareUpper)

	buildUpper, err := stageOverlay(ctx, base, "build", prepareUpper, nil)
	require.NoError(t, err)
	require.DirExists(t, buildUpper)
	require.NotEqual(t, prepareUpper, buildUpper)

	mounter := ctx.Env.Mounter().(*buildenv.NoopMounter)
	last := mounter.Mounted[len(mounter.Mounted)-1]
	require.Contains(t, last.Opts[0], "lowerdir="+prepareUpper)
}

func TestRunStagesReturnsCancelledWhenCancelBeforeStage(t *testing.T) {
	ctx := newTestContext(t)
	close(ctx.Cancel)

	rp := formula.ResolvedPackage{PrepareCmd: "true"}
	err := RunStages(ctx, rp, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindCancelled))
}

func TestRunCommandRacedTranslatesNonZeroExit(t *testing.T) {
	ctx := newTestContext(t)
	cmd := exec.Command("sh", "-c", "exit 7")
	err := runCommandRaced(ctx, "build", cmd)
	require.Error(t, err)
	e, ok := err.(*errs.Error)
	require.True(t, ok)
	require.Equal(t, errs.KindStageFailed, e.Kind)
	require.Equal(t, "7", e.Context["exit_code"])
}

func TestRunCommandRacedSucceedsOnZeroExit(t *testing.T) {
	ctx := newTestContext(t)
	cmd := exec.Command("sh", "-c", "exit 0")
	require.NoError(t, runCommandRaced(ctx, "build", cmd))
}

func TestRunCommandRacedKillsOnCancel(t *testing.T) {
	ctx := newTestContext(t)
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(ctx.Cancel)
	}()
	cmd := exec.Command("sh", "-c", "sleep 5")
	err := runCommandRaced(ctx, "build", cmd)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindCancelled))
}

func TestJoinColon(t *testing.T) {
	require.Equal(t, "a:b:c", joinColon([]string{"a", "b", "c"}))
	require.Equal(t, "a", joinColon([]string{"a"}))
	require.Equal(t, "", joinColon(nil))
}

func TestStageCommand(t *testing.T) {
	rp := formula.ResolvedPackage{
		PrepareCmd: "p",
		BuildCmd:   "b",
		CheckCmd:   "c",
		PackageCmd: "k",
	}
	require.Equal(t, "p", stageCommand(rp, "prepare"))
	require.Equal(t, "b", stageCommand(rp, "build"))
	require.Equal(t, "c", stageCommand(rp, "check"))
	require.Equal(t, "k", stageCommand(rp, "package"))
	require.Equal(t, "", stageCommand(rp, "unknown"))
}
