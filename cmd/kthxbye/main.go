package main

import (
	"os"

	"github.com/msto63/kthxbye/cmd/kthxbye/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
