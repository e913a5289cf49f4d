// Package item defines the item capability set and the built-in item kinds.
//
// An Item is a visual element of a component: it has a geometry made of
// reactive properties, answers mouse events, and exposes its properties by
// name so declarative scenes can bind them. Items live in an Arena owned by
// their component and are addressed by Ref (arena, slot).
//
// Built-in kinds are registered in a Registry created with NewRegistry:
// Rectangle, BorderRectangle, Text, Image, TouchArea, Flickable and
// ListViewItem. Painting is the renderer's concern and is not modelled here.
package item
