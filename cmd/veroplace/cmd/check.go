package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/veroplace/pkg/placer"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.lisp>",
	Short: "Validate a board description without solving it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(args[0])
	if err != nil {
		return err
	}
	if _, err := placer.New(*p); err != nil {
		return describeConfig(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d component(s), %d net(s), board %dx%d\n",
		args[0], len(p.Instances), len(p.Nets), p.Board.Width, p.Board.Height)
	return nil
}
