// main.go
//
// Minimal entry point that delegates CLI handling to the Cobra root command in cmd/root.go

package main

import (
	"github.com/safal938/iso-clinic-v2-sub000/cmd"
)

func main() {
	cmd.Execute()
}
