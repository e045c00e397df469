// main is the entry point for the codearchitect CLI.
package main

import (
	"github.com/huangsam/codearchitect/cmd"
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/iocache"
)

func main() {
	defer iocache.CloseHistory()

	if err := cmd.Execute(); err != nil {
		iocache.CloseHistory()
		contract.LogFatal("Failed to run command", err)
	}
}
