package ports

import (
	"context"
	"image"
	"io"

	"github.com/udagram/image-filter/internal/core/domain"
)

// ImageFetcher streams the body of a remote image into dst and returns the
// number of bytes written. Any failure (transport, non-2xx, size limit,
// cancellation) is returned as an error.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string, dst io.Writer) (int64, error)
}

// ImageFilter decodes, transforms and re-encodes images. format is the
// codec name reported by Decode ("jpeg", "png", ...).
type ImageFilter interface {
	Decode(r io.Reader) (img image.Image, format string, err error)
	Apply(img image.Image) image.Image
	Encode(w io.Writer, img image.Image, format string) error
}

// ScratchSpace hands out uniquely named file pairs for one job.
type ScratchSpace interface {
	NewJob() (ScratchJob, error)
}

// ScratchJob owns a downloaded file and a filtered file. Release deletes both.
type ScratchJob interface {
	domain.CleanupHandle
	ID() string
	SourcePath() string
	FilteredPath(ext string) string
}

// ImagePipeline downloads, filters and stages an image for serving.
type ImagePipeline interface {
	Process(ctx context.Context, rawURL string) (*domain.FilteredImage, error)
}
