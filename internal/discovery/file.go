// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads candidate names from a local file, one per line. A Path
// of "-" reads standard input.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

func (f *FileSource) Name() string { return "file" }

// FindCandidateNames returns the file contents. The institution is not used.
func (f *FileSource) FindCandidateNames(_ context.Context, _ string) (string, error) {
	if f.Path == "-" {
		r := f.Stdin
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading names from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading names file: %w", err)
	}
	return string(data), nil
}
