// micube - CLI for decoding and watching Xiaomi / Giiker smart cubes.
package main

import (
	"github.com/SeamusWaldron/micube/internal/cli"
)

func main() {
	cli.Execute()
}
