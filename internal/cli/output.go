package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lazorkit/lazor/pkg/pipeline"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte // rendered output keyed by format
	formats   []string          // formats requested on the command line
	input     string            // input board path, used to derive output names
	output    string            // explicit output path or base path
	cacheHit  bool              // whether the artifacts came from cache
}

// writeArtifacts writes each rendered artifact to its output file.
//
// Text output with no explicit --output goes to stdout. Every other format
// is written to a file derived from the input name (board.bff becomes
// board.svg), or from --output when set. With multiple formats, --output
// acts as a base path and each artifact gets its format extension.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 {
		return writeArtifact(p.artifacts[p.formats[0]], p.formats[0], singlePath(p), p.cacheHit)
	}

	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeArtifact(p.artifacts[format], format, path, p.cacheHit); err != nil {
			return err
		}
	}
	return nil
}

// singlePath resolves the output path for a single-format run.
// Text defaults to stdout (empty path); other formats default to the input
// name with the format extension.
func singlePath(p artifactWriteParams) string {
	if p.output != "" {
		return p.output
	}
	if p.formats[0] == pipeline.FormatText {
		return ""
	}
	return basePath("", p.input) + "." + p.formats[0]
}

// writeArtifact writes one artifact to path, or stdout when path is empty.
func writeArtifact(data []byte, format, path string, cacheHit bool) error {
	if data == nil {
		return fmt.Errorf("no %s artifact rendered", format)
	}

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
		if cacheHit {
			printDetail("served from cache")
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output already carries a format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
