package main

import (
	"github.com/anatomesh/goscaffold/cmd"
)

func main() {
	cmd.Execute()
}
