package handler

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/api/metrics"
	"github.com/udagram/image-filter/internal/api/middleware"
	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

// ImageHandler serves grayscale copies of remote images.
type ImageHandler struct {
	pipeline ports.ImagePipeline
	log      zerolog.Logger
}

func NewImageHandler(pipeline ports.ImagePipeline, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{pipeline: pipeline, log: log}
}

// Filter handles GET /api/v0/filteredimage?image_url=.
//
// @Summary      Filter an image from a public URL
// @Tags         images
// @Produce      image/jpeg,image/png,image/gif
// @Security     BearerAuth
// @Param        image_url  query     string  true  "URL of a publicly accessible image"
// @Success      200        {file}    binary
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Failure      500        {object}  errorResponse
// @Router       /filteredimage [get]
func (h *ImageHandler) Filter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		metrics.ImageJobsTotal.WithLabelValues("invalid_url").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ImageJobsTotal.WithLabelValues("invalid_url").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "image_url parameter is required")
	}

	start := time.Now()
	img, err := h.pipeline.Process(c.Request().Context(), req.ImageURL)
	metrics.ImagePipelineDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImageJobsTotal.WithLabelValues(jobResult(err)).Inc()
		return err
	}

	// Release runs on every exit below, including a failed or aborted send.
	defer h.release(img)

	if err := h.send(c, img); err != nil {
		metrics.ImageJobsTotal.WithLabelValues("transmit_failed").Inc()
		h.log.Warn().
			Err(err).
			Str("job_id", img.JobID).
			Str("identity", identity(c)).
			Msg("unable to send image")
		if c.Response().Committed {
			return nil
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to send image")
	}

	metrics.ImageJobsTotal.WithLabelValues("success").Inc()
	h.log.Info().
		Str("job_id", img.JobID).
		Str("identity", identity(c)).
		Msg("filtered image sent")
	return nil
}

func (h *ImageHandler) send(c echo.Context, img *domain.FilteredImage) error {
	f, err := os.Open(img.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Stream(http.StatusOK, img.ContentType, f)
}

func (h *ImageHandler) release(img *domain.FilteredImage) {
	if img.Cleanup == nil {
		return
	}
	if err := img.Cleanup.Release(); err != nil {
		metrics.ScratchCleanupFailuresTotal.Inc()
		h.log.Warn().Err(err).Str("job_id", img.JobID).Msg("scratch cleanup failed")
	}
}

func jobResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, domain.ErrDownloadFailed):
		return "download_failed"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, domain.ErrTransformFailed):
		return "transform_failed"
	default:
		return "error"
	}
}

func identity(c echo.Context) string {
	id, _ := c.Get(middleware.IdentityKey).(string)
	return id
}
