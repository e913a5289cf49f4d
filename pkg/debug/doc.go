// Package debug serves a running window over HTTP for inspection.
//
// Routes:
//
//	GET /tree     item tree with current geometry (JSON, or text with ?format=text)
//	GET /health   window id, current grab and dispatch counters
//	GET /metrics  Prometheus metrics
//	GET /events   websocket; each text frame is a mouse event, answered with
//	              the dispatch result
//
// Event frames look like {"kind":"pressed","x":20,"y":260}. Replies carry
// the result name and the grab after dispatch:
//
//	{"result":"grab_mouse","grab":"#2"}
package debug
