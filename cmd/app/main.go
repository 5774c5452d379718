package main

import (
	"os"

	"github.com/TorikulIslamHira/geofranzy-sub002/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
