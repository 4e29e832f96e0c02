package main

import (
	"github.com/NVIDIA/node-diagnostics/pkg/cli"
)

func main() {
	cli.Execute()
}
