package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camview/internal/api/models"
	"github.com/smazurov/camview/internal/devices"
)

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List video capture devices present on the host",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.DevicesResponse, error) {
		found, err := s.options.FindDevices()
		if err != nil && !errors.Is(err, devices.ErrNoDevices) {
			return nil, huma.Error500InternalServerError("Failed to enumerate devices", err)
		}

		data := models.DeviceData{Devices: make([]models.DeviceInfo, 0, len(found))}
		for _, d := range found {
			data.Devices = append(data.Devices, models.DeviceInfo{
				DevicePath: d.DevicePath,
				DeviceName: d.DeviceName,
				DeviceID:   d.DeviceID,
				Index:      d.Index,
			})
		}
		data.Count = len(data.Devices)

		return &models.DevicesResponse{Body: data}, nil
	})
}
