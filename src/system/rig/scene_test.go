package rig

import (
	"errors"
	"log"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/voodooEntity/rigpose/src/system/archivist"
	"github.com/voodooEntity/rigpose/src/system/pose"
	"github.com/voodooEntity/rigpose/src/system/rigBuilder"
)

// - - - - - - - - - - - - - - - - - - - - - - -
// SETUP FRESH SCENE
// - needs to be run for each test case
// - every scene gets its own randomly named gits instance

const charset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateRandomString(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(charset[rand.Intn(len(charset))])
	}
	return sb.String()
}

func setupFreshScene() *Scene {
	logger := archivist.New(&archivist.Config{Logger: log.New(os.Stdout, "", 0)})
	return New(generateRandomString(10), logger)
}

func legRig(prefix string) *rigBuilder.Joint {
	return rigBuilder.NewJoint(prefix+"hip").SetTranslate(0, 1, 0).AddChild(
		rigBuilder.NewJoint(prefix+"knee").SetTranslate(0, -0.5, 0).SetRotate(20, 0, 0).AddChild(
			rigBuilder.NewJoint(prefix+"ankle").SetTranslate(0, -0.5, 0),
		),
	).AddChild(
		rigBuilder.NewJoint(prefix+"tail").SetRotate(0, 0, 90),
	)
}

func names(t *testing.T, scene *Scene, joints []Joint) []string {
	t.Helper()
	ret := make([]string, 0, len(joints))
	for _, joint := range joints {
		name, err := scene.Name(joint)
		if err != nil {
			t.Fatalf("name of %s: %v", joint, err)
		}
		ret = append(ret, name)
	}
	return ret
}

func Test_Scene_AddRig_ResolveRootsChildren(t *testing.T) {
	scene := setupFreshScene()
	root, err := scene.AddRig(legRig("src_"))
	if err != nil {
		t.Fatalf("add rig failed: %v", err)
	}
	if _, err := scene.AddRig(legRig("dst_")); err != nil {
		t.Fatalf("add rig failed: %v", err)
	}

	resolved, err := scene.Resolve("src_hip")
	if err != nil || resolved != root {
		t.Fatalf("expected src_hip to resolve to %s, got %s (%v)", root, resolved, err)
	}

	roots, err := scene.Roots()
	if err != nil {
		t.Fatalf("roots failed: %v", err)
	}
	if got := strings.Join(names(t, scene, roots), ","); got != "src_hip,dst_hip" {
		t.Fatalf("unexpected roots %s", got)
	}

	children, err := scene.Children(root)
	if err != nil {
		t.Fatalf("children failed: %v", err)
	}
	if got := strings.Join(names(t, scene, children), ","); got != "src_knee,src_tail" {
		t.Fatalf("unexpected children %s", got)
	}

	ankle, err := scene.Resolve("src_ankle")
	if err != nil {
		t.Fatalf("resolve ankle: %v", err)
	}
	leaf, err := scene.Children(ankle)
	if err != nil || len(leaf) != 0 {
		t.Fatalf("expected leaf joint without children, got %v (%v)", leaf, err)
	}

	knee, _ := scene.Resolve("src_knee")
	transform, err := scene.LocalTransform(knee)
	if err != nil {
		t.Fatalf("read knee: %v", err)
	}
	if transform != pose.NewLocalTransform(0, -0.5, 0, 20, 0, 0) {
		t.Fatalf("unexpected knee transform %s", transform)
	}
}

func Test_Scene_AddJoint_KeepsSiblingOrder(t *testing.T) {
	scene := setupFreshScene()
	root, err := scene.AddRoot("root", pose.LocalTransform{})
	if err != nil {
		t.Fatalf("add root failed: %v", err)
	}
	for _, name := range []string{"c", "a", "b"} {
		if _, err := scene.AddJoint(root, name, pose.LocalTransform{}); err != nil {
			t.Fatalf("add joint %s failed: %v", name, err)
		}
	}
	children, err := scene.Children(root)
	if err != nil {
		t.Fatalf("children failed: %v", err)
	}
	if got := strings.Join(names(t, scene, children), ","); got != "c,a,b" {
		t.Fatalf("children should keep insertion order, got %s", got)
	}
}

func Test_Scene_SetLocalTransform_VisibleToNextRead(t *testing.T) {
	scene := setupFreshScene()
	root, _ := scene.AddRoot("root", pose.NewLocalTransform(1, 1, 1, 1, 1, 1))

	want := pose.NewLocalTransform(0.1, -2, 3e-5, 90, 45.5, -180)
	if err := scene.SetLocalTransform(root, want); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := scene.LocalTransform(root)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func Test_Scene_UnknownJointAndName(t *testing.T) {
	scene := setupFreshScene()

	if _, err := scene.Resolve("nobody"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for unknown name, got %v", err)
	}
	ghost := Joint(4242)
	if _, err := scene.LocalTransform(ghost); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError reading ghost, got %v", err)
	}
	if _, err := scene.Children(ghost); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError listing ghost, got %v", err)
	}
	if err := scene.SetLocalTransform(ghost, pose.LocalTransform{}); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError writing ghost, got %v", err)
	}
}

func Test_Scene_Resolve_AmbiguousName(t *testing.T) {
	scene := setupFreshScene()
	scene.AddRig(legRig(""))
	scene.AddRig(legRig(""))

	_, err := scene.Resolve("knee")
	var ambiguous *AmbiguousNameError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousNameError, got %v", err)
	}
	if len(ambiguous.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", ambiguous.Matches)
	}
}

func Test_Scene_CopyPoseBetweenRigs(t *testing.T) {
	scene := setupFreshScene()
	srcRoot, _ := scene.AddRig(legRig("src_"))
	dstRoot, _ := scene.AddRig(rigBuilder.NewJoint("dst_hip").AddChild(
		rigBuilder.NewJoint("dst_knee").AddChild(rigBuilder.NewJoint("dst_ankle")),
	).AddChild(rigBuilder.NewJoint("dst_tail")))

	snapshot, err := pose.Capture[Joint](scene, srcRoot)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if snapshot.Len() != 4 {
		t.Fatalf("expected 4 joints captured, got %d", snapshot.Len())
	}
	if got := strings.Join(names(t, scene, snapshot.Nodes()), ","); got != "src_hip,src_knee,src_ankle,src_tail" {
		t.Fatalf("unexpected capture order %s", got)
	}

	written, err := pose.Apply[Joint](scene, snapshot, dstRoot)
	if err != nil || written != 4 {
		t.Fatalf("apply failed: written=%d err=%v", written, err)
	}

	for _, pair := range [][2]string{{"src_hip", "dst_hip"}, {"src_knee", "dst_knee"}, {"src_ankle", "dst_ankle"}, {"src_tail", "dst_tail"}} {
		src, _ := scene.Resolve(pair[0])
		dst, _ := scene.Resolve(pair[1])
		want, _ := scene.LocalTransform(src)
		got, _ := scene.LocalTransform(dst)
		if got != want {
			t.Fatalf("%s: expected %s, got %s", pair[1], want, got)
		}
	}
}

func Test_Scene_ApplyOntoDeeperRig_Exhausts(t *testing.T) {
	scene := setupFreshScene()
	srcRoot, _ := scene.AddRoot("single", pose.NewLocalTransform(3, 3, 3, 0, 0, 0))
	dstRoot, _ := scene.AddRig(legRig("dst_"))

	snapshot, err := pose.Capture[Joint](scene, srcRoot)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	written, err := pose.Apply[Joint](scene, snapshot, dstRoot)
	var exhausted *pose.SnapshotExhaustedError
	if !errors.As(err, &exhausted) || written != 1 {
		t.Fatalf("expected exhaustion after 1 joint, got written=%d err=%v", written, err)
	}
	hip, _ := scene.LocalTransform(dstRoot)
	if hip != pose.NewLocalTransform(3, 3, 3, 0, 0, 0) {
		t.Fatalf("root should carry the pasted pose, got %s", hip)
	}
}

func Test_Scene_Export(t *testing.T) {
	scene := setupFreshScene()
	root, _ := scene.AddRig(legRig("src_"))

	exported, err := scene.Export(root)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if exported.Count() != 4 || exported.Name != "src_hip" {
		t.Fatalf("unexpected export %+v", exported)
	}
	if exported.Children[0].Name != "src_knee" || exported.Children[1].Name != "src_tail" {
		t.Fatalf("export lost child order")
	}
	if exported.Children[0].Children[0].Transform() != pose.NewLocalTransform(0, -0.5, 0, 0, 0, 0) {
		t.Fatalf("unexpected ankle transform %s", exported.Children[0].Children[0].Transform())
	}
}
