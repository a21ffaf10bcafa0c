package ast

// Children returns the items directly nested in item. Only generate
// constructs have children; every other item kind is a leaf.
func Children(item Item) []Item {
	switch n := item.(type) {
	case *GenerateRegion:
		return n.Items
	case *GenerateBlock:
		return n.Items
	case *LoopGenerate:
		return []Item{n.Body}
	case *IfGenerate:
		if n.Else != nil {
			return []Item{n.Then, n.Else}
		}
		return []Item{n.Then}
	case *CaseGenerate:
		out := make([]Item, 0, len(n.Items))
		for _, arm := range n.Items {
			out = append(out, arm.Body)
		}
		return out
	case *ParamDecl, *DataDecl, *PortDecl, *ContinuousAssign, *ProceduralBlock,
		*Instantiation, *ModportDecl, *GenvarDecl, *SkippedItem, *NullItem:
		return nil
	default:
		return nil
	}
}

// Inspect visits root and its nested items depth-first, in source order.
// If fn returns false the children of that item are not visited. The walk
// uses an explicit stack, so nesting depth is bounded only by memory.
func Inspect(root Item, fn func(Item) bool) {
	stack := []Item{root}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if item == nil || !fn(item) {
			continue
		}
		children := Children(item)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Instantiations returns every instantiation at or below root, depth-first.
func Instantiations(root Item) []*Instantiation {
	var out []*Instantiation
	Inspect(root, func(item Item) bool {
		if inst, ok := item.(*Instantiation); ok {
			out = append(out, inst)
		}
		return true
	})
	return out
}
