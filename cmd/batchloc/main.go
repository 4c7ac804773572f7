package main

import (
	"github.com/gametrans/batchloc/internal/cli"
)

func main() {
	cli.Execute()
}
