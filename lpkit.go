package lpkit

import (
	"fmt"

	"github.com/blang/semver/v4"
	"golang.org/x/sync/errgroup"

	"github.com/lpkit/lpkit/model"
	"github.com/lpkit/lpkit/parser"
)

// Version is the library version.
var Version = semver.MustParse("0.1.0")

// Parse parses a single LP document with default options.
func Parse(src string) (*model.Problem, error) {
	return parser.Parse(src)
}

// ParseAll parses several LP documents concurrently. The result slice
// matches the input order. On failure the first error is returned,
// wrapped with the index of the offending document.
func ParseAll(srcs []string) ([]*model.Problem, error) {
	problems := make([]*model.Problem, len(srcs))

	var g errgroup.Group
	for i, src := range srcs {
		g.Go(func() error {
			p, err := parser.Parse(src)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			problems[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return problems, nil
}
