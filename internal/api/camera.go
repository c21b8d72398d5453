package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camview/internal/api/models"
	"github.com/smazurov/camview/internal/capture"
)

// ParamPathInput names a capture parameter in the path.
type ParamPathInput struct {
	Param string `path:"param" example:"brightness" enum:"brightness,contrast,gain,width,height,fps" doc:"Parameter name"`
}

// ParamSetInput combines the parameter path with the requested value.
type ParamSetInput struct {
	ParamPathInput
	Body models.ParamSetBody
}

func (s *Server) registerCameraRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera",
		Method:      http.MethodGet,
		Path:        "/api/camera/params",
		Summary:     "Camera Parameters",
		Description: "Describe the open device and read every capture parameter",
		Tags:        []string{"camera"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.CameraResponse, error) {
		info := s.camera.Info()
		data := models.CameraData{
			Device: info.Path,
			Format: info.Format,
			Width:  info.Width,
			Height: info.Height,
			Frames: s.camera.Frames(),
		}
		for _, p := range capture.AllParams() {
			param := models.CameraParam{
				Name:       p.String(),
				Value:      s.camera.Get(p),
				Adjustable: p.Adjustable(),
			}
			if lo, hi, ok := s.camera.Range(p); ok {
				param.Min, param.Max = &lo, &hi
			}
			data.Params = append(data.Params, param)
		}
		return &models.CameraResponse{Body: data}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-camera-param",
		Method:      http.MethodPut,
		Path:        "/api/camera/params/{param}",
		Summary:     "Set Camera Parameter",
		Description: "Write a capture parameter. ok reports whether the device accepted it; a rejected value is not an error.",
		Tags:        []string{"camera"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422},
	}, func(ctx context.Context, input *ParamSetInput) (*models.ParamSetResponse, error) {
		p, err := capture.ParseParam(input.Param)
		if err != nil {
			return nil, huma.Error404NotFound("Unknown parameter", err)
		}

		ok := s.camera.Set(p, input.Body.Value)
		s.logger.Info("Camera parameter set via API", "param", p.String(), "value", input.Body.Value, "ok", ok)

		return &models.ParamSetResponse{
			Body: models.ParamSetData{
				Param: p.String(),
				Value: s.camera.Get(p),
				OK:    ok,
			},
		}, nil
	})
}
