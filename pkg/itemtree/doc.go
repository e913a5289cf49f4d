// Package itemtree describes the static item hierarchy of a component and
// walks it.
//
// A Tree is a flat array of nodes. Item nodes locate an item in the
// component's arena and name a contiguous range of children; dynamic nodes
// stand for the instances of one of the component's repeaters, whose
// number is only known at run time. The shape of a tree is fixed when it is
// built and validated by New; only the dynamic content changes.
//
// VisitItemTree walks a tree depth first and hands dynamic nodes to a
// DynamicHandler. DynamicContent builds the usual handler, which descends
// into every instance's own tree:
//
//	itemtree.Visit(root, func(c itemtree.Component, index int, ref item.Ref) bool {
//	    fmt.Println(ref.Item().Kind())
//	    return true
//	})
package itemtree
