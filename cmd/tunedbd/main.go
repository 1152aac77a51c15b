package main

import (
	"os"

	"github.com/kernel-tuning/tunedb/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		os.Exit(1)
	}
}
