package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/snapshot"
	"github.com/smazurov/camview/internal/view"
)

const (
	modeROI  = "ROI"
	modeZoom = "Zoom"
)

// Controls is the side panel: image controls, selection mode, orientation
// and save actions.
type Controls struct {
	app *App

	Sliders   map[capture.Param]*widget.Slider
	Mode      *widget.RadioGroup
	FlipV     *widget.Check
	FlipH     *widget.Check
	Rotate    *widget.Button
	ResetZoom *widget.Button
	ClearROI  *widget.Button
	Save      *widget.Button
	SaveAs    *widget.Button
	Status    *widget.Label
}

func newControls(a *App) *Controls {
	c := &Controls{app: a, Sliders: make(map[capture.Param]*widget.Slider)}

	for _, p := range []capture.Param{capture.ParamBrightness, capture.ParamContrast, capture.ParamGain} {
		lo, hi, ok := a.camera.Range(p)
		if !ok {
			continue
		}
		s := widget.NewSlider(lo, hi)
		s.Value = a.camera.Get(p)
		param := p
		s.OnChangeEnded = func(v float64) {
			if !a.camera.Set(param, v) {
				a.logger.Warn("Device rejected parameter", "param", param.String(), "value", v)
			}
		}
		c.Sliders[p] = s
	}

	c.Mode = widget.NewRadioGroup([]string{modeROI, modeZoom}, func(selected string) {
		a.ctrl.SetMode(modeFromLabel(selected))
	})
	c.Mode.Horizontal = true

	st := a.ctrl.State()
	c.FlipV = widget.NewCheck("Flip vertical", a.ctrl.SetFlipVertical)
	c.FlipV.Checked = st.FlipVertical
	c.FlipH = widget.NewCheck("Flip horizontal", a.ctrl.SetFlipHorizontal)
	c.FlipH.Checked = st.FlipHorizontal

	c.Rotate = widget.NewButton("Rotate", func() { a.ctrl.Rotate() })
	c.ResetZoom = widget.NewButton("Reset zoom", a.ctrl.ResetZoom)
	c.ClearROI = widget.NewButton("Clear ROI", a.ctrl.ClearROI)
	c.Save = widget.NewButton(saveLabel(a.ctrl.Target().Path()), c.save)
	c.SaveAs = widget.NewButton("Save As…", c.saveAs)
	c.Status = widget.NewLabel("")

	return c
}

// modeFromLabel maps the radio selection to a mode; no selection is ModeNone.
func modeFromLabel(label string) view.Mode {
	switch label {
	case modeROI:
		return view.ModeROI
	case modeZoom:
		return view.ModeZoom
	}
	return view.ModeNone
}

func saveLabel(path string) string {
	return "Save " + filepath.Base(path)
}

// Container lays the controls out vertically.
func (c *Controls) Container() fyne.CanvasObject {
	box := container.NewVBox()
	for _, p := range []capture.Param{capture.ParamBrightness, capture.ParamContrast, capture.ParamGain} {
		if s, ok := c.Sliders[p]; ok {
			box.Add(widget.NewLabel(p.String()))
			box.Add(s)
		}
	}
	box.Add(widget.NewSeparator())
	box.Add(widget.NewLabel("Select"))
	box.Add(c.Mode)
	box.Add(c.FlipV)
	box.Add(c.FlipH)
	box.Add(container.NewGridWithColumns(3, c.Rotate, c.ResetZoom, c.ClearROI))
	box.Add(widget.NewSeparator())
	box.Add(c.Save)
	box.Add(c.SaveAs)
	box.Add(widget.NewSeparator())
	box.Add(c.Status)
	return box
}

// setTarget refreshes the save button after the target moved.
func (c *Controls) setTarget(path string) {
	c.Save.SetText(saveLabel(path))
}

func (c *Controls) save() {
	res, err := c.app.ctrl.Save()
	if err != nil {
		dialog.ShowError(err, c.app.window)
		return
	}
	c.setTarget(res.Next)
}

func (c *Controls) saveAs() {
	target := c.app.ctrl.Target().Path()
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, c.app.window)
			return
		}
		if w == nil {
			c.invalidPath(fmt.Errorf("%w: no file chosen", snapshot.ErrInvalidSavePath))
			return
		}
		path := w.URI().Path()
		_ = w.Close()
		c.saveTo(path)
	}, c.app.window)

	d.SetFileName(filepath.Base(target))
	if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(target))); err == nil {
		d.SetLocation(dir)
	}
	d.Show()
}

// saveTo runs save-as for a path picked in the dialog. The dialog creates
// the file before we can validate it; an empty leftover is removed.
func (c *Controls) saveTo(path string) {
	res, err := c.app.ctrl.SaveAs(path)
	if err != nil {
		if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
			_ = os.Remove(path)
		}
		if errors.Is(err, snapshot.ErrInvalidSavePath) {
			c.invalidPath(err)
			return
		}
		dialog.ShowError(err, c.app.window)
		return
	}
	c.setTarget(res.Next)
}

func (c *Controls) invalidPath(err error) {
	c.app.logger.Warn("Invalid save path", "error", err)
	dialog.ShowInformation("Invalid path", "Image not saved: "+err.Error(), c.app.window)
}
