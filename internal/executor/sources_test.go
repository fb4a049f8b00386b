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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/formula"
)

type fakeFetcher struct {
	urls []string
}

func (f *fakeFetcher) Fetch(url, destPath string) error {
	f.urls = append(f.urls, url)
	return os.WriteFile(destPath, []byte("data"), 0644)
}

type fakeExtractor struct {
	extracted []string
}

func (f *fakeExtractor) Extract(archivePath, destDir string) error {
	f.extracted = append(f.extracted, archivePath)
	return nil
}

func TestFetchSourcesExpandsURLAndWritesDest(t *testing.T) {
	ctx := newTestContext(t)
	fetcher := &fakeFetcher{}
	extractor := &fakeExtractor{}

	noExtract := false
	sources := []formula.SourceSpec{
		{URL: "https://example.org/$PKG_NAME-$PKG_VERSION.tar.xz", Dest: "src.tar.xz"},
		{URL: "https://example.org/extra.patch", Dest: "extra.patch", Extract: &noExtract},
	}

	require.NoError(t, FetchSources(ctx, sources, fetcher, extractor))
	require.Contains(t, fetcher.urls, "https://example.org/pkg-1.0.tar.xz")
	require.FileExists(t, filepath.Join(ctx.Env.WorkDir, "sources", "src.tar.xz"))

	require.Len(t, extractor.extracted, 1)
	require.Contains(t, extractor.extracted[0], "src.tar.xz")
}

func TestFetchSourcesRejectsEscapingDest(t *testing.T) {
	ctx := newTestContext(t)
	sources := []formula.SourceSpec{{URL: "https://example.org/x", Dest: "../escape"}}

	err := FetchSources(ctx, sources, &fakeFetcher{}, &fakeExtractor{})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestFetchSourcesRejectsAbsoluteDest(t *testing.T) {
	ctx := newTestContext(t)
	sources := []formula.SourceSpec{{URL: "https://example.org/x", Dest: "/etc/passwd"}}

	err := FetchSources(ctx, sources, &fakeFetcher{}, &fakeExtractor{})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindInvalidInput))
}

type failingFetcher struct{}

func (failingFetcher) Fetch(url, destPath string) error {
	return errFetch
}

var errFetch = &fetchErr{}

type fetchErr struct{}

func (e *fetchErr) Error() string { return "network unreachable" }

func TestFetchSourcesSurfacesFetchFailed(t *testing.T) {
	ctx := newTestContext(t)
	sources := []formula.SourceSpec{{URL: "https://example.org/x", Dest: "x"}}

	err := FetchSources(ctx, sources, failingFetcher{}, &fakeExtractor{})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindFetchFailed))
}
