// Package scene loads declarative scenes from YAML.
//
// A scene document declares named models and an item hierarchy. Property
// values are literals or binding expressions:
//
//	root:
//	  kind: Rectangle
//	  props:
//	    width: {ref: window.width}
//	  children:
//	    - repeat:
//	        model: names
//	        template:
//	          kind: Text
//	          props:
//	            y: {mul: [{ref: model.index}, 20]}
//	            text: {ref: model.data}
//
// An expression is a scalar literal or a mapping with one key:
//
//	ref: path      reads a property; paths are item.property,
//	               window.width, window.height, model.index, model.data,
//	               parent.<path> for the enclosing instance, and
//	               models.<name>.count
//	add: [a, b...] sums numbers, or concatenates when any operand is text
//	mul: [a, b...] multiplies numbers
//
// Callbacks such as a TouchArea's clicked run actions that mutate models or
// set properties. Scripts replay pointer events against a loaded scene and
// check the outcome of each step.
package scene
