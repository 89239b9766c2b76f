package main

import (
	// Embedded zone database for hosts without one.
	_ "time/tzdata"

	"github.com/oshokin/loadshed-guard/cmd/loadshed-guard/cmd"
)

func main() {
	cmd.Execute()
}
