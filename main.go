package main

import (
	"os"

	"github.com/achilleasa/meshbvh/cmd"
	"github.com/achilleasa/meshbvh/log"
)

func main() {
	if err := cmd.NewApp().Run(os.Args); err != nil {
		log.New("meshbvh").Error(err)
		os.Exit(1)
	}
}
