package main

import (
	"os"

	"github.com/terminus-io/quotabar/cmd/quotabar/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
