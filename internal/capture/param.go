package capture

import (
	"fmt"
	"strings"
)

// Param identifies a capture parameter.
type Param int

const (
	ParamBrightness Param = iota
	ParamContrast
	ParamGain
	ParamFrameWidth
	ParamFrameHeight
	ParamFPS
)

var paramNames = [...]string{
	ParamBrightness:  "brightness",
	ParamContrast:    "contrast",
	ParamGain:        "gain",
	ParamFrameWidth:  "width",
	ParamFrameHeight: "height",
	ParamFPS:         "fps",
}

func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return fmt.Sprintf("param(%d)", int(p))
	}
	return paramNames[p]
}

// ParseParam maps a parameter name to its Param.
func ParseParam(name string) (Param, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range paramNames {
		if n == name {
			return Param(i), nil
		}
	}
	return 0, fmt.Errorf("unknown capture parameter %q", name)
}

// AllParams lists every parameter in display order.
func AllParams() []Param {
	return []Param{ParamBrightness, ParamContrast, ParamGain, ParamFrameWidth, ParamFrameHeight, ParamFPS}
}

// Adjustable reports whether the parameter is an image control rather
// than part of the negotiated stream format.
func (p Param) Adjustable() bool {
	return p == ParamBrightness || p == ParamContrast || p == ParamGain
}
