package pose

// walk visits every joint below root in pre-order depth-first order and
// returns how many were visited. Children of a joint are requested only
// after its visit returned, so a visitor that writes sees its write
// committed before the walk descends. The stack replaces recursion; rigs
// can be arbitrarily deep.
func walk[N any](host Lister[N], root N, visit func(index int, node N) error) (int, error) {
	stack := []N{root}
	index := 0
	for 0 < len(stack) {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := visit(index, node); err != nil {
			return index, err
		}

		children, err := host.Children(node)
		if err != nil {
			return index + 1, hostError(err, func(err error) error {
				return &TransformReadError{Index: index, Node: nodeName(node), Op: "children", Err: err}
			})
		}
		index++

		// reversed so the first child is popped first
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return index, nil
}

// Order returns the joints below root in the traversal order Capture and
// Apply use.
func Order[N any](host Lister[N], root N) ([]N, error) {
	var order []N
	_, err := walk(host, root, func(_ int, node N) error {
		order = append(order, node)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
