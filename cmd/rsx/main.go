package main

import (
	"os"

	"github.com/gnolang/rsx/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
