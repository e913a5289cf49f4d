// Package repeater keeps a dynamic node's instances in step with a model.
//
// A Repeater owns an ordered list of component instances. UpdateModel is
// its only mutator: it disposes every instance and builds Count() new ones,
// handing instance i the pair (i, Get(i)). There is no reuse between
// rebuilds, so all state inside the repeated instances is recreated.
//
// Sync is the change-driven entry point. It remembers which model reads
// the last rebuild depended on and only rebuilds once one of them went
// dirty.
package repeater
