// timecalc evaluates arithmetic over instants and durations.
package main

import (
	"fmt"
	"os"

	"github.com/jparise/timecalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
