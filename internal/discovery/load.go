// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coresolve/coresolve/pkg/coredesc"

	"golang.org/x/sync/errgroup"
)

// Result bundles the successfully parsed core files with the diagnostics
// produced while finding and parsing them.
type Result struct {
	// Files holds parsed cores in discovery order.
	Files []*DiscoveredFile
	// Diagnostics lists skipped roots and files.
	Diagnostics []Diagnostic
}

// LoadAll discovers core files and parses them concurrently. A file that
// fails to parse is left out of Result.Files and reported as an error
// diagnostic.
func (d *Discovery) LoadAll(ctx context.Context) (*Result, error) {
	files, diagnostics, err := d.DiscoverAll(ctx)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file.Core, file.Error = coredesc.Parse(file.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load cores: %w", err)
	}

	result := &Result{Diagnostics: diagnostics}
	for _, file := range files {
		if file.Error != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     CodeCoreParseSkipped,
				Message:  file.Error.Error(),
				Path:     file.Path,
				Cause:    file.Error,
			})
			continue
		}
		slog.Debug("loaded core", "name", file.Core.ID.String(), "path", file.Path)
		result.Files = append(result.Files, file)
	}

	return result, nil
}
