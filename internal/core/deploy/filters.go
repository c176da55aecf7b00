package deploy

import (
	"fmt"

	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/infrastructure/preprocess"
)

// FilterFunc transforms file content before upload. origin is the local
// path of the file being filtered, used to resolve relative references.
type FilterFunc func(content []byte, origin string) ([]byte, error)

// Filter is one step of a file type's chain. A final filter is the last
// one permitted to run for its type.
type Filter struct {
	Apply FilterFunc
	Final bool
}

// FilterChain holds ordered per-file-type filter pipelines.
type FilterChain struct {
	chains map[string][]Filter
}

// NewFilterChain creates an empty filter chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{chains: make(map[string][]Filter)}
}

// Add registers fn for the given file type tag. Registration order is
// execution order; filters added after a final one for the same type
// never run.
func (c *FilterChain) Add(fileType string, fn FilterFunc, final bool) {
	c.chains[fileType] = append(c.chains[fileType], Filter{Apply: fn, Final: final})
}

// Len returns the total number of registered filters.
func (c *FilterChain) Len() int {
	n := 0
	for _, filters := range c.chains {
		n += len(filters)
	}
	return n
}

// Has reports whether any filter is registered for the file type.
func (c *FilterChain) Has(fileType string) bool {
	return len(c.chains[fileType]) > 0
}

// Apply runs the chain registered for fileType over content in order,
// stopping after the first final filter.
func (c *FilterChain) Apply(fileType string, content []byte, origin string) ([]byte, error) {
	for _, f := range c.chains[fileType] {
		out, err := f.Apply(content, origin)
		if err != nil {
			return nil, fmt.Errorf("%s filter failed for %s: %w", fileType, origin, err)
		}
		content = out
		if f.Final {
			break
		}
	}
	return content, nil
}

// BuildFilters assembles the preprocessing pipeline for a section: import
// expansion and compression for js, import expansion, @import inlining
// and compression for css. The chain is empty when preprocessing is
// disabled.
func BuildFilters(sec *section.Section) *FilterChain {
	chain := NewFilterChain()
	if !sec.Preprocess {
		return chain
	}

	chain.Add("js", preprocess.ExpandImports, false)
	chain.Add("js", preprocess.CompressJS, true)

	chain.Add("css", preprocess.ExpandImports, false)
	chain.Add("css", preprocess.InlineCSSImports, false)
	chain.Add("css", preprocess.CompressCSS, true)

	return chain
}
