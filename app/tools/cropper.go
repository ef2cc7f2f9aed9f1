package tools

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CropperWidget displays a frame and lets the user drag-select a region of it.
type CropperWidget struct {
	widget.BaseWidget

	frame      image.Image
	startPos   fyne.Position
	currentPos fyne.Position
	isDragging bool

	raster    *canvas.Image
	selection *canvas.Rectangle

	// OnSelected receives the selection in frame pixels.
	OnSelected func(rect image.Rectangle)
}

func NewCropperWidget(img image.Image, onSelected func(image.Rectangle)) *CropperWidget {
	c := &CropperWidget{
		frame:      img,
		OnSelected: onSelected,
	}
	c.ExtendBaseWidget(c)

	c.raster = canvas.NewImageFromImage(img)
	c.raster.ScaleMode = canvas.ImageScalePixels // no smoothing, templates must stay pixel exact
	c.raster.FillMode = canvas.ImageFillContain

	c.selection = canvas.NewRectangle(color.RGBA{R: 255, A: 60})
	c.selection.StrokeColor = color.RGBA{R: 255, A: 255}
	c.selection.StrokeWidth = 2
	c.selection.Hide()

	return c
}

func (c *CropperWidget) CreateRenderer() fyne.WidgetRenderer {
	return &cropperRenderer{
		cropper: c,
		objects: []fyne.CanvasObject{c.raster, c.selection},
	}
}

func (c *CropperWidget) Dragged(e *fyne.DragEvent) {
	if !c.isDragging {
		c.isDragging = true
		c.startPos = e.Position.Subtract(e.Dragged)
		c.selection.Show()
	}
	c.currentPos = e.Position
	c.Refresh()
}

func (c *CropperWidget) DragEnd() {
	c.isDragging = false
	c.Refresh()
	if c.OnSelected == nil {
		return
	}
	view := fitContain(c.Size(), c.frame.Bounds().Size())
	px := selectionToPixels(view, c.startPos, c.currentPos, c.frame.Bounds())
	if px.Empty() {
		return
	}
	c.OnSelected(px)
}

func (c *CropperWidget) Tapped(e *fyne.PointEvent) {
	c.startPos = e.Position
	c.currentPos = e.Position
	c.selection.Hide()
	c.Refresh()
}

func (c *CropperWidget) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// viewRect is where the contained image is drawn inside the widget.
type viewRect struct {
	Pos  fyne.Position
	Size fyne.Size
}

// fitContain mirrors canvas.ImageFillContain: the image keeps its aspect and is centred.
func fitContain(bound fyne.Size, img image.Point) viewRect {
	if bound.Width == 0 || bound.Height == 0 || img.X == 0 || img.Y == 0 {
		return viewRect{}
	}
	aspect := float32(img.X) / float32(img.Y)
	if bound.Width/bound.Height > aspect {
		h := bound.Height
		w := h * aspect
		return viewRect{Pos: fyne.NewPos((bound.Width-w)/2, 0), Size: fyne.NewSize(w, h)}
	}
	w := bound.Width
	h := w / aspect
	return viewRect{Pos: fyne.NewPos(0, (bound.Height-h)/2), Size: fyne.NewSize(w, h)}
}

// selectionToPixels maps a drag between a and b onto frame pixels, clipped to the drawn image.
func selectionToPixels(view viewRect, a, b fyne.Position, frame image.Rectangle) image.Rectangle {
	if view.Size.Width == 0 || view.Size.Height == 0 {
		return image.Rectangle{}
	}
	x1 := max(view.Pos.X, min(a.X, b.X))
	y1 := max(view.Pos.Y, min(a.Y, b.Y))
	x2 := min(view.Pos.X+view.Size.Width, max(a.X, b.X))
	y2 := min(view.Pos.Y+view.Size.Height, max(a.Y, b.Y))
	if x2 <= x1 || y2 <= y1 {
		return image.Rectangle{}
	}

	sx := float32(frame.Dx()) / view.Size.Width
	sy := float32(frame.Dy()) / view.Size.Height
	px := image.Rect(
		int((x1-view.Pos.X)*sx),
		int((y1-view.Pos.Y)*sy),
		int((x2-view.Pos.X)*sx),
		int((y2-view.Pos.Y)*sy),
	).Add(frame.Min)
	// float math can overshoot by a pixel
	return px.Intersect(frame)
}

type cropperRenderer struct {
	cropper *CropperWidget
	objects []fyne.CanvasObject
}

func (r *cropperRenderer) Layout(s fyne.Size) {
	r.objects[0].Resize(s)
	r.objects[0].Move(fyne.NewPos(0, 0))
	r.placeSelection()
}

func (r *cropperRenderer) placeSelection() {
	c := r.cropper
	minX, minY := min(c.startPos.X, c.currentPos.X), min(c.startPos.Y, c.currentPos.Y)
	maxX, maxY := max(c.startPos.X, c.currentPos.X), max(c.startPos.Y, c.currentPos.Y)
	r.objects[1].Move(fyne.NewPos(minX, minY))
	r.objects[1].Resize(fyne.NewSize(maxX-minX, maxY-minY))
}

func (r *cropperRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *cropperRenderer) Refresh() {
	r.placeSelection()
	canvas.Refresh(r.cropper)
}

func (r *cropperRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *cropperRenderer) Destroy() {}
