// Package model defines the data sources that drive repeated content.
//
// A Model is anything that can report a length and return the element at
// an index. The repeater never inspects elements; it forwards them to the
// instances it builds.
//
// Models that can change (Vec, Count) keep a revision property. Reading
// Count or Get inside a binding makes that binding depend on the model, so
// a mutation marks it dirty like any other property write.
package model
