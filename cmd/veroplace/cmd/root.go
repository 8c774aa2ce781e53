package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "veroplace",
	Short: "Stripboard placement and routing solver",
	Long: `veroplace searches for component placements on stripboard that
realize a netlist, using drilled-out holes and jumper wires to cut and
bridge the copper strips.

Problems are described in a small Lisp dialect:

  (stripboard :width 10 :height 8)
  (resistor "R1" :max-length 4)
  (dip "U1" :pins 8)
  (net (pin "R1" 2) (pin "U1" 1))
  (bounds :max-drilled 2 :max-jumpers 1 :max-jumper-length 5)

Examples:
  veroplace solve board.lisp                 # print every layout
  veroplace solve board.lisp --first-only    # stop at the first layout
  veroplace solve board.lisp --svg out.svg   # render layouts to SVG
  veroplace check board.lisp                 # validate without solving`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
