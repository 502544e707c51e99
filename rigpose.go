// Package rigpose copies a pose from one skeletal rig to another inside a
// scene. A RigPose holds the scene and the most recently copied pose;
// Copy captures a rig, Paste writes the held pose onto another rig.
package rigpose

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/voodooEntity/gits"

	"github.com/voodooEntity/rigpose/src/system/archivist"
	"github.com/voodooEntity/rigpose/src/system/interfaces"
	"github.com/voodooEntity/rigpose/src/system/pose"
	"github.com/voodooEntity/rigpose/src/system/rig"
	"github.com/voodooEntity/rigpose/src/system/rigBuilder"
)

// ErrNothingCopied is returned by Paste before any successful Copy.
var ErrNothingCopied = errors.New("rigpose: no pose copied")

type Settings struct {
	// Ident names the scene storage. Generated when empty.
	Ident      string
	LogLevel   int
	DebugLevel int
	Logger     interfaces.LoggerInterface
	// Strict makes Paste fail when the target rig has fewer joints than
	// the copied pose.
	Strict bool
	// Gits is an existing storage to hold the scene. When nil a new gits
	// instance named Ident is created.
	Gits *gits.Gits
}

type RigPose struct {
	scene    *rig.Scene
	log      *archivist.Archivist
	strict   bool
	copied   *pose.Snapshot[rig.Joint]
	copiedID uuid.UUID
	source   string
}

// New creates a session on its own scene. Without Settings.Gits every call
// registers a new named gits instance, which gits keeps until the process
// exits; hosts creating many sessions should pass a shared instance.
func New(settings Settings) *RigPose {
	if settings.Ident == "" {
		settings.Ident = "rigpose-" + uuid.NewString()
	}
	logger := archivist.New(&archivist.Config{
		Logger:     settings.Logger,
		LogLevel:   settings.LogLevel,
		DebugLevel: settings.DebugLevel,
		Ident:      settings.Ident,
	})
	logger.Info("Creating rigpose instance " + settings.Ident)

	var scene *rig.Scene
	if settings.Gits != nil {
		scene = rig.NewWithGits(settings.Gits, logger)
	} else {
		scene = rig.New(settings.Ident, logger)
	}
	return &RigPose{
		scene:  scene,
		log:    logger,
		strict: settings.Strict,
	}
}

func (rp *RigPose) Scene() *rig.Scene {
	return rp.scene
}

// LoadRigs maps every rig of a YAML fixture into the scene and returns
// their roots in file order.
func (rp *RigPose) LoadRigs(r io.Reader) ([]rig.Joint, error) {
	rigs, err := rigBuilder.LoadYAML(r)
	if err != nil {
		return nil, err
	}
	roots := make([]rig.Joint, 0, len(rigs))
	for _, joint := range rigs {
		root, err := rp.scene.AddRig(joint)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// Rigs lists the names of all root joints in the scene.
func (rp *RigPose) Rigs() ([]string, error) {
	roots, err := rp.scene.Roots()
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(roots))
	for _, root := range roots {
		name, err := rp.scene.Name(root)
		if err != nil {
			return nil, err
		}
		ret = append(ret, name)
	}
	return ret, nil
}

// Copy captures the pose of the rig rooted at the joint called name and
// keeps it for Paste, replacing any earlier copy. It returns the number of
// joints captured. A failed copy keeps the earlier copy.
func (rp *RigPose) Copy(name string) (int, error) {
	root, err := rp.scene.Resolve(name)
	if err != nil {
		rp.log.Error("Copy could not resolve rig", name, err)
		return 0, err
	}
	snapshot, err := pose.Capture[rig.Joint](rp.scene, root)
	if err != nil {
		rp.log.Error("Copy failed", name, err)
		return 0, err
	}

	rp.copied = snapshot
	rp.copiedID = uuid.New()
	rp.source = name
	rp.log.InfoF("Copied pose %s from %s (%d joints)", rp.copiedID, name, snapshot.Len())
	rp.log.DebugF(archivist.DEBUG_LEVEL_DUMP, "Copied pose %s %v", rp.copiedID, snapshot.Transforms())
	return snapshot.Len(), nil
}

// Paste writes the copied pose onto the rig rooted at the joint called
// name and returns the number of joints written.
//
// Paste is not transactional: when it fails midway the joints written so
// far keep the pasted pose and the others keep their old one.
func (rp *RigPose) Paste(name string) (int, error) {
	if rp.copied == nil {
		rp.log.Warning("Paste without copied pose, target " + name)
		return 0, ErrNothingCopied
	}
	root, err := rp.scene.Resolve(name)
	if err != nil {
		rp.log.Error("Paste could not resolve rig", name, err)
		return 0, err
	}

	apply := pose.Apply[rig.Joint]
	if rp.strict {
		apply = pose.ApplyStrict[rig.Joint]
	}
	written, err := apply(rp.scene, rp.copied, root)
	if err != nil {
		var under *pose.SnapshotUnderconsumedError
		if errors.As(err, &under) {
			rp.log.ErrorF("Paste of %s onto %s used %d of %d joints, target is fully posed but has fewer joints: %s", rp.copiedID, name, written, rp.copied.Len(), err)
		} else {
			rp.log.ErrorF("Paste of %s onto %s failed after %d of %d joints, target is partially posed: %s", rp.copiedID, name, written, rp.copied.Len(), err)
		}
		return written, fmt.Errorf("pasting pose from %s onto %s: %w", rp.source, name, err)
	}
	if written < rp.copied.Len() {
		rp.log.WarningF("Pasted %d of %d joints from %s onto %s, target rig has fewer joints", written, rp.copied.Len(), rp.source, name)
	}
	rp.log.InfoF("Pasted pose %s onto %s (%d joints)", rp.copiedID, name, written)
	return written, nil
}

// Copied returns the held pose and the name of the rig it came from. The
// snapshot is nil before the first Copy.
func (rp *RigPose) Copied() (*pose.Snapshot[rig.Joint], string) {
	return rp.copied, rp.source
}
