package main

import (
	"os"

	"github.com/srmagura/blog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
