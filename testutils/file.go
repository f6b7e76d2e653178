// Package testutils holds helpers shared by the tests of several packages: synthetic
// microscopy frames, binary masks drawn from text, and temporary image files.
package testutils

import (
	"image"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.plaquette.dev/platecount/rimage"
)

// WriteImage saves img as name inside dir and returns its path, failing the test on error.
func WriteImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	test.That(t, rimage.WriteImageToFile(path, img), test.ShouldBeNil)
	return path
}
