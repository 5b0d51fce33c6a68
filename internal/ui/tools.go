package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ColoringStudio/internal/surface"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	Color    color.NRGBA
	OnTapped func(*colorSwatch)

	selected bool
	border   *canvas.Rectangle
}

func newColorSwatch(name string, c color.NRGBA, tapped func(*colorSwatch)) *colorSwatch {
	s := &colorSwatch{Name: name, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(36, 36))
	rect.CornerRadius = 18

	s.border = canvas.NewRectangle(color.Transparent)
	s.border.CornerRadius = 18
	s.applySelection()

	return widget.NewSimpleRenderer(container.NewStack(rect, s.border))
}

func (s *colorSwatch) applySelection() {
	if s.border == nil {
		return
	}
	if s.selected {
		s.border.StrokeColor = color.Black
		s.border.StrokeWidth = 3
	} else {
		s.border.StrokeColor = color.Gray{Y: 150}
		s.border.StrokeWidth = 1
	}
	s.border.Refresh()
}

func (s *colorSwatch) SetSelected(on bool) {
	s.selected = on
	s.applySelection()
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s)
	}
}

// NewToolbar builds the studio controls: palette, brush size, eraser,
// clear and finish.
func NewToolbar(st *Studio) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.NavigateBackIcon(), st.Back),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentClearIcon(), st.Clear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), st.Download),
	)

	// --- Color Palette ---
	var swatches []*colorSwatch
	onSwatch := func(picked *colorSwatch) {
		for _, s := range swatches {
			s.SetSelected(s == picked)
		}
		st.SetColor(picked.Color)
	}
	for _, sw := range st.env.palette() {
		c, err := surface.ParseColor(sw.Hex)
		if err != nil {
			st.env.logger.Warn("[STUDIO] skipping palette color", "name", sw.Name, "hex", sw.Hex, "err", err)
			continue
		}
		s := newColorSwatch(sw.Name, c, onSwatch)
		s.selected = c == st.color
		swatches = append(swatches, s)
	}
	colorObjs := make([]fyne.CanvasObject, len(swatches))
	for i, s := range swatches {
		colorObjs[i] = s
	}
	colorBox := container.NewHBox(colorObjs...)

	// --- Stroke Width Slider ---
	sizeLabel := widget.NewLabel(fmt.Sprintf("%.0f", st.width))
	strokeSlider := widget.NewSlider(surface.MinWidth, surface.MaxWidth)
	strokeSlider.Step = 1
	strokeSlider.SetValue(st.width)
	strokeSlider.OnChanged = func(val float64) {
		sizeLabel.SetText(fmt.Sprintf("%.0f", val))
		st.SetWidth(val)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(160, 35)), strokeSlider)

	st.eraserCheck = widget.NewCheck("Eraser", st.SetEraser)

	finishLabel := "FINISH & DOWNLOAD"
	if st.env.gallery != nil {
		finishLabel = "FINISH & SAVE"
	}
	finish := widget.NewButtonWithIcon(finishLabel, theme.ConfirmIcon(), st.Finish)
	finish.Importance = widget.HighImportance

	// --- Assemble everything ---
	return container.NewVBox(
		container.NewHBox(
			tb,
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			sliderContainer,
			sizeLabel,
			st.eraserCheck,
			layout.NewSpacer(),
			finish,
		),
		container.NewHBox(widget.NewLabel("Color:"), colorBox, layout.NewSpacer()),
	)
}
