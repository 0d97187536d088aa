// main is the entry point for the farmstat CLI.
package main

import (
	"github.com/huangsam/farmstat/cmd"
	"github.com/huangsam/farmstat/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
