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
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/formula"
)

// sourceFetchConcurrency is the small fixed concurrency cap for source
// fetches of one formula (spec.md §5).
const sourceFetchConcurrency = 4

// Fetcher is the external fetch primitive (spec.md §1: "HTTP/FTP transport
// mechanics... treated as a fetch primitive"). Components never implement
// transport directly; they depend on this interface.
type Fetcher interface {
	Fetch(url, destPath string) error
}

// Extractor is the external extract primitive (spec.md §1: "archive
// decompression... treated as an extract primitive").
type Extractor interface {
	// Extract decompresses archivePath into destDir, or returns an error if
	// the sniffed type is unsupported.
	Extract(archivePath, destDir string) error
}

// ShellFetcher fetches via curl, the natural external collaborator for
// HTTP(S)/FTP URLs; "file://" sources are copied directly.
type ShellFetcher struct{}

func (ShellFetcher) Fetch(url, destPath string) error {
	if strings.HasPrefix(url, "file://") {
		return exec.Command("cp", strings.TrimPrefix(url, "file://"), destPath).Run()
	}
	return exec.Command("curl", "-fsSL", "-o", destPath, url).Run()
}

// ShellExtractor shells out to `tar`, sniffing nothing more elaborate than
// letting tar's own auto-detection (`tar xf`) pick the decompressor.
type ShellExtractor struct{}

func (ShellExtractor) Extract(archivePath, destDir string) error {
	return exec.Command("tar", "-xf", archivePath, "-C", destDir).Run()
}

// FetchSources acquires every source of a resolved package before the
// prepare stage, substituting $PKG_NAME/$PKG_VERSION/$PKG_ARCH into each
// URL, refusing escaping destinations, and extracting archives unless
// Extract is false. Fetches for the formula's source list run with a
// small fixed concurrency cap (spec.md §5).
func FetchSources(ctx *Context, sources []formula.SourceSpec, fetcher Fetcher, extractor Extractor) error {
	sourcesDir := filepath.Join(ctx.Env.WorkDir, "sources")
	if err := os.MkdirAll(sourcesDir, 0755); err != nil {
		return errs.New(errs.KindIoError, "executor", map[string]string{"path": sourcesDir}, err)
	}

	sem := make(chan struct{}, sourceFetchConcurrency)
	var wg sync.WaitGroup
	errCh := make(chan error, len(sources))

	for _, src := range sources {
		src := src
		if err := formula.ValidateSourceDest(src.Dest); err != nil {
			return err
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fetchOne(ctx, src, sourcesDir, fetcher, extractor); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func fetchOne(ctx *Context, src formula.SourceSpec, sourcesDir string, fetcher Fetcher, extractor Extractor) error {
	url := formula.ExpandSourceURL(src.URL, ctx.Formula.Name, ctx.Formula.Version, ctx.Arch)
	destPath := filepath.Join(sourcesDir, src.Dest)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errs.New(errs.KindIoError, "executor", map[string]string{"path": destPath}, err)
	}

	if err := fetcher.Fetch(url, destPath); err != nil {
		return errs.New(errs.KindFetchFailed, "executor", map[string]string{"url": url}, err)
	}

	if !src.ExtractOrDefault() {
		return nil
	}

	if err := extractor.Extract(destPath, filepath.Dir(destPath)); err != nil {
		return errs.New(errs.KindExtractFailed, "executor", map[string]string{"path": destPath}, err)
	}
	return nil
}
