package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

var extensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"bmp":  "bmp",
	"tiff": "tif",
}

// ImageService runs the fetch → grayscale → stage pipeline.
type ImageService struct {
	fetcher  ports.ImageFetcher
	filter   ports.ImageFilter
	scratch  ports.ScratchSpace
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// NewImageService wires the pipeline. timeout <= 0 leaves the caller's
// context as the only deadline.
func NewImageService(
	fetcher ports.ImageFetcher,
	filter ports.ImageFilter,
	scratch ports.ScratchSpace,
	timeout time.Duration,
	log zerolog.Logger,
) *ImageService {
	return &ImageService{
		fetcher:  fetcher,
		filter:   filter,
		scratch:  scratch,
		timeout:  timeout,
		validate: validator.New(),
		log:      log,
	}
}

// Process downloads rawURL, converts it to grayscale and returns the staged
// result. On error every scratch file of the job has already been removed.
// On success the caller owns img.Cleanup.
func (s *ImageService) Process(ctx context.Context, rawURL string) (img *domain.FilteredImage, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, domain.ErrInvalidURL
	}
	if verr := s.validate.Var(rawURL, "http_url"); verr != nil {
		return nil, domain.ErrInvalidURL
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	job, err := s.scratch.NewJob()
	if err != nil {
		return nil, fmt.Errorf("process image: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rerr := job.Release(); rerr != nil {
			s.log.Warn().Err(rerr).Str("job_id", job.ID()).Msg("scratch cleanup failed")
		}
	}()

	if err := s.download(ctx, rawURL, job); err != nil {
		return nil, err
	}

	format, filtered, err := s.transform(job)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("job_id", job.ID()).
		Str("format", format).
		Msg("image filtered")

	return &domain.FilteredImage{
		JobID:       job.ID(),
		SourceURL:   rawURL,
		Path:        filtered,
		ContentType: contentTypes[format],
		Cleanup:     job,
	}, nil
}

func (s *ImageService) download(ctx context.Context, rawURL string, job ports.ScratchJob) error {
	f, err := os.OpenFile(job.SourcePath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: create scratch file: %v", domain.ErrDownloadFailed, err)
	}

	n, ferr := s.fetcher.Fetch(ctx, rawURL, f)
	cerr := f.Close()
	if ferr != nil {
		s.log.Info().Err(ferr).Str("job_id", job.ID()).Msg("image download failed")
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, ferr)
	}
	if cerr != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, cerr)
	}
	if n == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrDownloadFailed)
	}
	return nil
}

func (s *ImageService) transform(job ports.ScratchJob) (string, string, error) {
	src, err := os.Open(job.SourcePath())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrTransformFailed, err)
	}
	decoded, format, err := s.filter.Decode(src)
	_ = src.Close()
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}
	ext, ok := extensions[format]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	path := job.FilteredPath(ext)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrTransformFailed, err)
	}

	eerr := s.filter.Encode(dst, s.filter.Apply(decoded), format)
	cerr := dst.Close()
	if err := errors.Join(eerr, cerr); err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrTransformFailed, err)
	}
	return format, path, nil
}
