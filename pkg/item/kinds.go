package item

import "github.com/vango-dev/scene/pkg/property"

// Built-in kind names.
const (
	KindRectangle       = "Rectangle"
	KindBorderRectangle = "BorderRectangle"
	KindText            = "Text"
	KindImage           = "Image"
	KindTouchArea       = "TouchArea"
	KindFlickable       = "Flickable"
	KindListViewItem    = "ListViewItem"
)

// Rectangle is a filled rectangle. It ignores input.
type Rectangle struct {
	Base
	Color property.Property[Color]
}

func NewRectangle() *Rectangle {
	return &Rectangle{}
}

func (r *Rectangle) Kind() string { return KindRectangle }

func (r *Rectangle) InputEvent(MouseEvent) InputEventResult { return EventIgnored }

func (r *Rectangle) Lookup(name string) (any, bool) {
	if name == "color" {
		return &r.Color, true
	}
	return r.Base.Lookup(name)
}

func (r *Rectangle) Dispose() {
	r.Base.Dispose()
	r.Color.Dispose()
}

// BorderRectangle is a Rectangle with a rounded, colored border.
type BorderRectangle struct {
	Rectangle
	BorderWidth  property.Property[float32]
	BorderRadius property.Property[float32]
	BorderColor  property.Property[Color]
}

func NewBorderRectangle() *BorderRectangle {
	return &BorderRectangle{}
}

func (r *BorderRectangle) Kind() string { return KindBorderRectangle }

func (r *BorderRectangle) Lookup(name string) (any, bool) {
	switch name {
	case "border_width":
		return &r.BorderWidth, true
	case "border_radius":
		return &r.BorderRadius, true
	case "border_color":
		return &r.BorderColor, true
	}
	return r.Rectangle.Lookup(name)
}

func (r *BorderRectangle) Dispose() {
	r.Rectangle.Dispose()
	r.BorderWidth.Dispose()
	r.BorderRadius.Dispose()
	r.BorderColor.Dispose()
}

// Text displays a string. It ignores input.
type Text struct {
	Base
	Text     property.Property[string]
	Color    property.Property[Color]
	FontSize property.Property[float32]
}

func NewText() *Text {
	t := &Text{}
	t.Color.Set(0xff000000)
	return t
}

func (t *Text) Kind() string { return KindText }

func (t *Text) InputEvent(MouseEvent) InputEventResult { return EventIgnored }

func (t *Text) Lookup(name string) (any, bool) {
	switch name {
	case "text":
		return &t.Text, true
	case "color":
		return &t.Color, true
	case "font_size":
		return &t.FontSize, true
	}
	return t.Base.Lookup(name)
}

func (t *Text) Dispose() {
	t.Base.Dispose()
	t.Text.Dispose()
	t.Color.Dispose()
	t.FontSize.Dispose()
}

// Image displays the image at Source. It ignores input.
type Image struct {
	Base
	Source property.Property[string]
}

func NewImage() *Image {
	return &Image{}
}

func (i *Image) Kind() string { return KindImage }

func (i *Image) InputEvent(MouseEvent) InputEventResult { return EventIgnored }

func (i *Image) Lookup(name string) (any, bool) {
	if name == "source" {
		return &i.Source, true
	}
	return i.Base.Lookup(name)
}

func (i *Image) Dispose() {
	i.Base.Dispose()
	i.Source.Dispose()
}

// ListViewItem is one row of a standard list view. It carries the row data
// and selection state and leaves input to the items around it.
type ListViewItem struct {
	Base
	Text       property.Property[string]
	Index      property.Property[int]
	IsSelected property.Property[bool]
	HasHover   property.Property[bool]
}

func NewListViewItem() *ListViewItem {
	return &ListViewItem{}
}

func (l *ListViewItem) Kind() string { return KindListViewItem }

func (l *ListViewItem) InputEvent(MouseEvent) InputEventResult { return EventIgnored }

func (l *ListViewItem) Lookup(name string) (any, bool) {
	switch name {
	case "text":
		return &l.Text, true
	case "index":
		return &l.Index, true
	case "is_selected":
		return &l.IsSelected, true
	case "has_hover":
		return &l.HasHover, true
	}
	return l.Base.Lookup(name)
}

func (l *ListViewItem) Dispose() {
	l.Base.Dispose()
	l.Text.Dispose()
	l.Index.Dispose()
	l.IsSelected.Dispose()
	l.HasHover.Dispose()
}
