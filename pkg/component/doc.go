// Package component turns a nested item declaration into live component
// instances.
//
// A Builder compiles an Element hierarchy once into a Definition: the flat
// item tree shared by every instance, the item kind of each arena slot and
// the templates of repeated content. Definition.New then creates an
// Instance, which owns its items, its repeaters and the model_index and
// model_data properties set when it is repeated.
package component
