package source

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/compliance-go/pkg/compliance"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// FileResult is the outcome of parsing one file. Err is set instead of
// Districts when the file could not be read or decoded.
type FileResult struct {
	Path      string              `json:"path"`
	Districts models.DistrictList `json:"districts,omitempty"`
	Err       error               `json:"-"`
}

// ParseFiles reads and parses files concurrently. Results follow the order
// of paths; a failing file does not stop the others. The returned error is
// non-nil only when ctx is cancelled.
func ParseFiles(ctx context.Context, paths []string, opts compliance.Options) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseFile(path string, opts compliance.Options) FileResult {
	res := FileResult{Path: path}
	buf, err := ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Districts, res.Err = compliance.Parse(buf, opts)
	return res
}
