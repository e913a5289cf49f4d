// Package input routes pointer events through a component's item tree.
//
// Dispatch is a two state machine over a Grab. While the grab is free,
// events go through a hit test that finds the topmost item under the
// pointer. When that item answers GrabMouse it becomes the grabber and
// every later event is delivered to it directly, translated into its local
// coordinates, until it answers anything else.
package input
