package main

import (
	"log"
	"os"
	"strings"

	"github.com/voodooEntity/rigpose"
	"github.com/voodooEntity/rigpose/src/system/archivist"
	"github.com/voodooEntity/rigpose/src/system/pose"
	"github.com/voodooEntity/rigpose/src/system/rig"
)

const rigs = `
rigs:
  - name: animated:hips
    translate: [0, 98.2, 1.5]
    rotate: [4, -12, 0]
    children:
      - name: animated:spine
        translate: [0, 10, 0]
        rotate: [8, 0, 2]
      - name: animated:leg_l
        translate: [9, -4, 0]
        rotate: [-30, 0, 0]
        children:
          - name: animated:knee_l
            translate: [0, -42, 0]
            rotate: [55, 0, 0]
  - name: static:hips
    children:
      - name: static:spine
      - name: static:leg_l
        children:
          - name: static:knee_l
`

func main() {
	//logger := log.New(io.Discard, "", 0)
	logger := log.New(os.Stdout, "", 0)

	// Ident names the scene storage and shows up in every log line
	rp := rigpose.New(rigpose.Settings{
		Ident:    "ExampleScene",
		LogLevel: archivist.LEVEL_INFO,
		Logger:   logger,
	})

	// load both rigs into the scene
	if _, err := rp.LoadRigs(strings.NewReader(rigs)); err != nil {
		logger.Fatalln("loading rigs:", err)
	}

	names, err := rp.Rigs()
	if err != nil {
		logger.Fatalln("listing rigs:", err)
	}
	logger.Println("Rigs in scene:", names)

	// copy from the animated rig, paste onto the static one
	if _, err := rp.Copy("animated:hips"); err != nil {
		logger.Fatalln("copy:", err)
	}
	if _, err := rp.Paste("static:hips"); err != nil {
		logger.Fatalln("paste:", err)
	}

	// print the static rig in traversal order
	scene := rp.Scene()
	root, _ := scene.Resolve("static:hips")
	order, err := pose.Order[rig.Joint](scene, root)
	if err != nil {
		logger.Fatalln("walking static rig:", err)
	}
	for _, joint := range order {
		name, _ := scene.Name(joint)
		transform, _ := scene.LocalTransform(joint)
		logger.Println(name, transform)
	}
}
