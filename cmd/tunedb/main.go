package main

import (
	"github.com/kernel-tuning/tunedb/pkg/cli"
)

func main() {
	cli.Execute()
}
