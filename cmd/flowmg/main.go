// Command flowmg runs the geometric-multigrid incompressible flow solver
// from a configuration file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
