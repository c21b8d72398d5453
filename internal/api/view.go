package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camview/internal/api/models"
	"github.com/smazurov/camview/internal/snapshot"
	"github.com/smazurov/camview/internal/view"
)

type FlipInput struct {
	Body models.FlipBody
}

type ModeInput struct {
	Body models.ModeBody
}

type PointerInput struct {
	Body models.PointerBody
}

type SaveAsInput struct {
	Body models.SaveAsBody
}

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-view-state",
		Method:      http.MethodGet,
		Path:        "/api/view/state",
		Summary:     "View State",
		Description: "Orientation, pointer mode, selections and save target",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.ViewStateResponse, error) {
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "rotate-view",
		Method:      http.MethodPost,
		Path:        "/api/view/rotate",
		Summary:     "Rotate",
		Description: "Add a quarter turn counter-clockwise",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.ViewStateResponse, error) {
		s.viewer.Rotate()
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-view-flip",
		Method:      http.MethodPut,
		Path:        "/api/view/flip",
		Summary:     "Flip",
		Description: "Set vertical and horizontal mirroring",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(ctx context.Context, input *FlipInput) (*models.ViewStateResponse, error) {
		s.viewer.SetFlipVertical(input.Body.Vertical)
		s.viewer.SetFlipHorizontal(input.Body.Horizontal)
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-view-mode",
		Method:      http.MethodPut,
		Path:        "/api/view/mode",
		Summary:     "Pointer Mode",
		Description: "Select what pointer drags edit: nothing, the ROI outline or the zoom rectangle",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(ctx context.Context, input *ModeInput) (*models.ViewStateResponse, error) {
		mode, err := view.ParseMode(input.Body.Mode)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Invalid mode", err)
		}
		s.viewer.SetMode(mode)
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-zoom",
		Method:      http.MethodPost,
		Path:        "/api/view/zoom/reset",
		Summary:     "Reset Zoom",
		Description: "Drop the zoom selection and any active crop",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.ViewStateResponse, error) {
		s.viewer.ResetZoom()
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "clear-roi",
		Method:      http.MethodPost,
		Path:        "/api/view/roi/clear",
		Summary:     "Clear ROI",
		Description: "Remove the region of interest outline",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.ViewStateResponse, error) {
		s.viewer.ClearROI()
		return s.stateResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "view-pointer",
		Method:      http.MethodPost,
		Path:        "/api/view/pointer",
		Summary:     "Pointer Event",
		Description: "Feed a press, move or release in display coordinates to the active selection. Returns the mapped image point.",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401, 409, 422},
	}, func(ctx context.Context, input *PointerInput) (*models.PointerResponse, error) {
		kind, err := view.ParsePointerKind(input.Body.Kind)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Invalid pointer kind", err)
		}

		p, err := s.viewer.HandlePointer(view.PointerEvent{
			Kind:          kind,
			X:             input.Body.X,
			Y:             input.Body.Y,
			DisplayWidth:  input.Body.DisplayWidth,
			DisplayHeight: input.Body.DisplayHeight,
		})
		if err != nil {
			return nil, viewError(err)
		}
		return &models.PointerResponse{Body: models.PointerData{X: p.X, Y: p.Y}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "save-view",
		Method:      http.MethodPost,
		Path:        "/api/view/save",
		Summary:     "Save",
		Description: "Write the composed view to the current target and advance the target",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{401, 500, 503},
	}, func(ctx context.Context, input *struct{}) (*models.SaveResponse, error) {
		res, err := s.viewer.Save()
		if err != nil {
			return nil, viewError(err)
		}
		return saveResponse(res), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "save-view-as",
		Method:      http.MethodPost,
		Path:        "/api/view/save-as",
		Summary:     "Save As",
		Description: "Make path the save target and write the composed view to it. An invalid path leaves the target unchanged.",
		Tags:        []string{"view"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 500, 503},
	}, func(ctx context.Context, input *SaveAsInput) (*models.SaveResponse, error) {
		res, err := s.viewer.SaveAs(input.Body.Path)
		if err != nil {
			return nil, viewError(err)
		}
		return saveResponse(res), nil
	})
}

func (s *Server) stateResponse() *models.ViewStateResponse {
	st := s.viewer.State()
	return &models.ViewStateResponse{
		Body: models.ViewState{
			Rotation:       st.Rotation,
			FlipVertical:   st.FlipVertical,
			FlipHorizontal: st.FlipHorizontal,
			Mode:           st.Mode.String(),
			ROI:            toRect(st.ROI),
			Zoom:           toRect(st.Zoom),
			ZoomReleased:   st.ZoomReleased,
			Crop:           toRect(st.Crop),
			Target:         st.Target,
			Frame:          st.Frame,
			DisplayWidth:   st.DisplayWidth,
			DisplayHeight:  st.DisplayHeight,
		},
	}
}

func toRect(r *view.Rect) *models.Rect {
	if r == nil {
		return nil
	}
	return &models.Rect{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

func saveResponse(res view.SaveResult) *models.SaveResponse {
	return &models.SaveResponse{
		Body: models.SaveData{
			Path:   res.Path,
			Next:   res.Next,
			Width:  res.Width,
			Height: res.Height,
		},
	}
}

// viewError maps controller and snapshot errors onto HTTP statuses.
func viewError(err error) error {
	switch {
	case errors.Is(err, view.ErrInvalidSelectionMode):
		return huma.Error409Conflict("No selection mode active", err)
	case errors.Is(err, view.ErrNoDisplay):
		return huma.Error422UnprocessableEntity("Display size required", err)
	case errors.Is(err, snapshot.ErrInvalidSavePath), errors.Is(err, snapshot.ErrUnsupportedFormat):
		return huma.Error400BadRequest("Invalid save path", err)
	case errors.Is(err, view.ErrNoFrame):
		return huma.Error503ServiceUnavailable("No frame captured yet", err)
	default:
		return huma.Error500InternalServerError("View operation failed", err)
	}
}
