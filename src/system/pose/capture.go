package pose

// Capture records the local transform of every joint below root, root
// included, in pre-order depth-first order. Children are taken in the
// order the host returns them. Nothing is written to the host. On any
// error no snapshot is returned.
func Capture[N any](host Reader[N], root N) (*Snapshot[N], error) {
	snapshot := &Snapshot[N]{}
	_, err := walk[N](host, root, func(index int, node N) error {
		transform, err := host.LocalTransform(node)
		if err != nil {
			return hostError(err, func(err error) error {
				return &TransformReadError{Index: index, Node: nodeName(node), Op: "transform", Err: err}
			})
		}
		snapshot.transforms = append(snapshot.transforms, transform)
		snapshot.nodes = append(snapshot.nodes, node)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
