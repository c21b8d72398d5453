package models

// CameraParam is one device parameter with its current value and range.
type CameraParam struct {
	Name       string   `json:"name" example:"brightness" doc:"Parameter name"`
	Value      float64  `json:"value" example:"0" doc:"Current value"`
	Min        *float64 `json:"min,omitempty" example:"-64" doc:"Lowest accepted value, when the device reports one"`
	Max        *float64 `json:"max,omitempty" example:"64" doc:"Highest accepted value, when the device reports one"`
	Adjustable bool     `json:"adjustable" example:"true" doc:"Whether the parameter can be changed while streaming"`
}

// CameraData describes the open device and its parameters.
type CameraData struct {
	Device string        `json:"device" example:"/dev/video0" doc:"Device path"`
	Format string        `json:"format" example:"MJPG" doc:"Negotiated pixel format"`
	Width  int           `json:"width" example:"1920" doc:"Negotiated frame width"`
	Height int           `json:"height" example:"1080" doc:"Negotiated frame height"`
	Frames uint64        `json:"frames" example:"4821" doc:"Frames published since start"`
	Params []CameraParam `json:"params" doc:"Device parameters"`
}

type CameraResponse struct {
	Body CameraData
}

type ParamSetBody struct {
	Value float64 `json:"value" example:"32" doc:"Requested value"`
}

type ParamSetData struct {
	Param string  `json:"param" example:"brightness" doc:"Parameter name"`
	Value float64 `json:"value" example:"32" doc:"Value read back after the set"`
	OK    bool    `json:"ok" example:"true" doc:"Whether the device accepted the value"`
}

type ParamSetResponse struct {
	Body ParamSetData
}
