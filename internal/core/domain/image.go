package domain

import "errors"

var (
	ErrInvalidURL        = errors.New("image_url parameter is required and must be an http(s) URL")
	ErrDownloadFailed    = errors.New("unable to download image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTransformFailed   = errors.New("unable to filter image")
)

// CleanupHandle owns the scratch files of one image job. Release deletes
// them; calling it more than once is a no-op and missing files are not an
// error.
type CleanupHandle interface {
	Release() error
}

// FilteredImage is the servable output of one pipeline run. The caller must
// call Cleanup.Release exactly once after it is done transmitting Path,
// whatever the outcome of the transmission.
type FilteredImage struct {
	JobID       string
	SourceURL   string
	Path        string
	ContentType string
	Cleanup     CleanupHandle
}
