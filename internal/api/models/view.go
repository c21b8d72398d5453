package models

// Rect is a corner pair in image coordinates.
type Rect struct {
	X1 int `json:"x1" example:"10" doc:"First corner x"`
	Y1 int `json:"y1" example:"20" doc:"First corner y"`
	X2 int `json:"x2" example:"110" doc:"Second corner x"`
	Y2 int `json:"y2" example:"90" doc:"Second corner y"`
}

// ViewState is the presentation state of the viewer.
type ViewState struct {
	Rotation       int    `json:"rotation" example:"1" minimum:"0" maximum:"3" doc:"Quarter turns counter-clockwise"`
	FlipVertical   bool   `json:"flip_vertical" doc:"Rows mirrored"`
	FlipHorizontal bool   `json:"flip_horizontal" doc:"Columns mirrored"`
	Mode           string `json:"mode" example:"zoom" enum:"none,roi,zoom" doc:"Active pointer mode"`
	ROI            *Rect  `json:"roi,omitempty" doc:"Region of interest corners"`
	Zoom           *Rect  `json:"zoom,omitempty" doc:"Zoom selection corners"`
	ZoomReleased   bool   `json:"zoom_released" doc:"Whether the zoom drag has been released"`
	Crop           *Rect  `json:"crop,omitempty" doc:"Active crop in oriented image coordinates"`
	Target         string `json:"target" example:"/home/pi/image_001.png" doc:"Path the next save writes"`
	Frame          uint64 `json:"frame" example:"4821" doc:"Sequence number of the latest frame"`
	DisplayWidth   int    `json:"display_width" example:"1280" doc:"Last reported display width"`
	DisplayHeight  int    `json:"display_height" example:"720" doc:"Last reported display height"`
}

type ViewStateResponse struct {
	Body ViewState
}

type FlipBody struct {
	Vertical   bool `json:"vertical" doc:"Mirror rows"`
	Horizontal bool `json:"horizontal" doc:"Mirror columns"`
}

type ModeBody struct {
	Mode string `json:"mode" example:"roi" enum:"none,roi,zoom" doc:"Pointer mode"`
}

type PointerBody struct {
	Kind          string  `json:"kind" example:"press" enum:"press,move,release" doc:"Pointer action"`
	X             float64 `json:"x" example:"320" doc:"Display x"`
	Y             float64 `json:"y" example:"180" doc:"Display y"`
	DisplayWidth  int     `json:"display_width,omitempty" example:"1280" minimum:"0" doc:"Display width; zero uses the last rendered size"`
	DisplayHeight int     `json:"display_height,omitempty" example:"720" minimum:"0" doc:"Display height; zero uses the last rendered size"`
}

type PointerData struct {
	X int `json:"x" example:"640" doc:"Mapped image x"`
	Y int `json:"y" example:"360" doc:"Mapped image y"`
}

type PointerResponse struct {
	Body PointerData
}

type SaveAsBody struct {
	Path string `json:"path" example:"/home/pi/shots/desk_010.jpg" doc:"Destination file; extension selects the format"`
}

type SaveData struct {
	Path   string `json:"path" example:"/home/pi/image_001.png" doc:"File written"`
	Next   string `json:"next" example:"/home/pi/image_002.png" doc:"Next save target"`
	Width  int    `json:"width" example:"1920" doc:"Saved image width"`
	Height int    `json:"height" example:"1080" doc:"Saved image height"`
}

type SaveResponse struct {
	Body SaveData
}

type PreviewResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}
