// Package preprocess implements the content filters attached to a
// deployment job: import expansion, CSS @import inlining and compression.
// All functions match the job filter signature and are safe to call
// concurrently.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"
)

// importDirective matches /* @import "file" */ comment directives on
// their own line.
var importDirective = regexp.MustCompile(`(?m)^[ \t]*/\*+[ \t]*@import[ \t]+"([^"]+)"[ \t]*\*+/[ \t]*$`)

// ExpandImports inlines files referenced by /* @import "file" */ comment
// directives, resolved relative to the importing file.
func ExpandImports(content []byte, origin string) ([]byte, error) {
	dir := filepath.Dir(origin)

	var firstErr error
	out := importDirective.ReplaceAllFunc(content, func(m []byte) []byte {
		name := string(importDirective.FindSubmatch(m)[1])
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("cannot expand import %q in %s: %w", name, origin, err)
			}
			return m
		}
		return data
	})

	return out, firstErr
}

// InlineCSSImports resolves @import rules in CSS by bundling the file.
// References to images and fonts stay external.
func InlineCSSImports(content []byte, origin string) ([]byte, error) {
	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(content),
			ResolveDir: filepath.Dir(origin),
			Sourcefile: filepath.Base(origin),
			Loader:     api.LoaderCSS,
		},
		Bundle:   true,
		Write:    false,
		External: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.ico", "*.woff", "*.woff2", "*.ttf", "*.eot"},
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("inlining css imports in %s failed: %s", origin, result.Errors[0].Text)
	}
	if len(result.OutputFiles) == 0 {
		return content, nil
	}
	return result.OutputFiles[0].Contents, nil
}

// CompressJS minifies JavaScript content.
func CompressJS(content []byte, origin string) ([]byte, error) {
	return minify(content, origin, api.LoaderJS)
}

// CompressCSS minifies CSS content.
func CompressCSS(content []byte, origin string) ([]byte, error) {
	return minify(content, origin, api.LoaderCSS)
}

func minify(content []byte, origin string, loader api.Loader) ([]byte, error) {
	result := api.Transform(string(content), api.TransformOptions{
		Loader:            loader,
		MinifyWhitespace:  true,
		MinifyIdentifiers: loader == api.LoaderJS,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("minifying %s failed: %s", origin, result.Errors[0].Text)
	}
	return result.Code, nil
}
