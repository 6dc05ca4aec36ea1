// Package micube decodes the state frames of Xiaomi Mi Smart and Giiker
// cubes and turns them into sticker colors, and talks to the cubes over
// Bluetooth Low Energy (BLE).
//
// # Features
//
//   - Frame decoding with validation (works standalone without BLE)
//   - Sticker colors for any face cell, and an unfolded net for printing
//   - Device discovery and connection
//   - Move, solved and battery events
//
// # Quick Start
//
// Connect to a cube and print its moves:
//
//	ctx := context.Background()
//	cube, err := micube.ConnectFirst(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cube.Close()
//
//	cube.OnMove(func(m micube.Move) {
//	    fmt.Println("Move:", m.Notation())
//	})
//
//	cube.OnSolved(func() {
//	    fmt.Println("Solved!")
//	})
//
//	// Keep running...
//	select {}
//
// # Decoding Frames
//
// A frame is 36 half-byte cells. DecodeFrame validates and decodes one:
//
//	f, err := micube.DecodeFrame(cells)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(f.Cube)                              // unfolded net
//	fmt.Println(f.Cube.Color(micube.FaceF, 0, 2))     // one sticker
//	fmt.Println(f.Cube.FaceColors(micube.FaceU))      // one face
//	fmt.Println("Solved:", f.Cube.IsSolved(), "Last move:", f.Move)
//
// Faces are named as the cube is held with green on top and white in front:
// U is green, F white, R orange, B yellow, L red and D blue.
//
// # Predefined Moves
//
// The cube reports quarter turns only:
//
//	micube.R      // Right clockwise
//	micube.RPrime // Right counter-clockwise
//	// ... and similarly for L, U, D, F, B
package micube
