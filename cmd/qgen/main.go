package main

import (
	"github.com/tacogips/qgen/internal/cli"
)

func main() {
	cli.Execute()
}
