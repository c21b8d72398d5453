package api

import (
	"bytes"
	"context"
	"image"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camview/internal/api/models"
	"github.com/smazurov/camview/internal/snapshot"
	"github.com/smazurov/camview/internal/view"
)

// PreviewInput selects the encoding and optional fitted size of a preview.
type PreviewInput struct {
	Format string `query:"format" default:"jpeg" enum:"jpeg,png,bmp" doc:"Image encoding"`
	Width  int    `query:"width" minimum:"0" maximum:"7680" doc:"Fit into this width; zero keeps the aspect from height or the source size"`
	Height int    `query:"height" minimum:"0" maximum:"4320" doc:"Fit into this height; zero keeps the aspect from width or the source size"`
}

var previewExt = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"bmp":  ".bmp",
}

func (s *Server) registerPreviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-preview",
		Method:      http.MethodGet,
		Path:        "/api/view/preview",
		Summary:     "Preview",
		Description: "A single still of the composed view, the same pixels a save would write",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401, 500, 503},
	}, func(ctx context.Context, input *PreviewInput) (*models.PreviewResponse, error) {
		img := s.viewer.Compose()
		if img == nil {
			return nil, viewError(view.ErrNoFrame)
		}

		w, h := previewSize(img.Bounds(), input.Width, input.Height)
		var out image.Image = img
		if w != img.Bounds().Dx() || h != img.Bounds().Dy() {
			out = view.Scale(img, w, h)
		}

		ext := previewExt[input.Format]
		if ext == "" {
			ext = ".jpg"
		}
		var buf bytes.Buffer
		if err := snapshot.Encode(&buf, out, ext); err != nil {
			return nil, huma.Error500InternalServerError("Failed to encode preview", err)
		}

		return &models.PreviewResponse{
			ContentType:  snapshot.ContentType(ext),
			CacheControl: "no-store",
			Body:         buf.Bytes(),
		}, nil
	})
}

// previewSize resolves the requested output size. A single given dimension
// keeps the source aspect ratio.
func previewSize(src image.Rectangle, w, h int) (int, int) {
	sw, sh := src.Dx(), src.Dy()
	switch {
	case w > 0 && h > 0:
		return w, h
	case w > 0 && sw > 0:
		return w, max(1, w*sh/sw)
	case h > 0 && sh > 0:
		return max(1, h*sw/sh), h
	}
	return sw, sh
}
