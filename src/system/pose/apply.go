package pose

// Apply walks the hierarchy below root in the same order as Capture and
// writes snapshot entry i onto the i-th visited joint. It returns the
// number of joints written.
//
// The two hierarchies are expected to have the same shape; this is not
// checked. A target with fewer joints leaves trailing entries unused and
// is not an error. A target with more joints fails with
// *SnapshotExhaustedError once the entries run out.
//
// Apply is not transactional. Every write is committed immediately, so
// after a failure the joints visited so far carry the new pose and the
// rest keep the old one. The returned count says how many were written.
func Apply[N any](host Writer[N], snapshot *Snapshot[N], root N) (int, error) {
	if snapshot == nil {
		return 0, ErrNilSnapshot
	}

	written := 0
	_, err := walk[N](host, root, func(index int, node N) error {
		if index >= snapshot.Len() {
			return &SnapshotExhaustedError{Length: snapshot.Len(), Node: nodeName(node)}
		}
		if err := host.SetLocalTransform(node, snapshot.transforms[index]); err != nil {
			return hostError(err, func(err error) error {
				return &TransformWriteError{Index: index, Node: nodeName(node), Err: err}
			})
		}
		written++
		return nil
	})
	return written, err
}

// ApplyStrict is Apply, but additionally fails with
// *SnapshotUnderconsumedError when the target had fewer joints than the
// snapshot. The target is fully written in that case.
func ApplyStrict[N any](host Writer[N], snapshot *Snapshot[N], root N) (int, error) {
	written, err := Apply(host, snapshot, root)
	if err != nil {
		return written, err
	}
	if written < snapshot.Len() {
		return written, &SnapshotUnderconsumedError{Length: snapshot.Len(), Written: written}
	}
	return written, nil
}
