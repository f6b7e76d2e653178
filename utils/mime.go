package utils

import (
	"path/filepath"
	"strings"
)

const (
	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeTIFF is the usual container of microscope exports.
	MimeTypeTIFF = "image/tiff"

	// MimeTypeBMP is uncompressed bitmaps.
	MimeTypeBMP = "image/bmp"

	// MimeTypePPM is netpbm pixmaps.
	MimeTypePPM = "image/x-portable-pixmap"
)

var imageExtensions = map[string]string{
	".jpg":  MimeTypeJPEG,
	".jpeg": MimeTypeJPEG,
	".png":  MimeTypePNG,
	".tif":  MimeTypeTIFF,
	".tiff": MimeTypeTIFF,
	".bmp":  MimeTypeBMP,
	".ppm":  MimeTypePPM,
}

// ImageMimeType returns the mime type implied by the file extension of path, or the empty
// string if path does not name a raster format we read.
func ImageMimeType(path string) string {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsImageFile reports whether path has an extension of a raster format we read.
func IsImageFile(path string) bool {
	return ImageMimeType(path) != ""
}
