package models

import "github.com/smazurov/camview/internal/version"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Device models
type DeviceInfo struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Device node"`
	DeviceName string `json:"device_name" example:"HD Pro Webcam C920" doc:"Name reported by the driver"`
	DeviceID   string `json:"device_id" example:"usb-046d_HD_Pro_Webcam_C920-video-index0" doc:"Stable device identifier"`
	Index      int    `json:"index" example:"0" doc:"Numeric device index"`
}

type DeviceData struct {
	Devices []DeviceInfo `json:"devices" doc:"Capture devices"`
	Count   int          `json:"count" example:"1" doc:"Number of devices"`
}

type DevicesResponse struct {
	Body DeviceData
}

// Log models
type LogEntry struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"capture" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int        `json:"count" example:"120" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
