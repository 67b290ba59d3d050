package main

import (
	"os"

	"github.com/monkeylang/monkey/cmd/monkeyfmt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
