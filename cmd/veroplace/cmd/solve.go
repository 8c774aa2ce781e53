package cmd

import (
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/veroplace/pkg/engine"
	"github.com/chazu/veroplace/pkg/kernel/sdfx"
	"github.com/chazu/veroplace/pkg/placer"
	"github.com/chazu/veroplace/pkg/placer/sat"
	"github.com/chazu/veroplace/pkg/render"
	"github.com/chazu/veroplace/pkg/scene"
)

var (
	maxDrilled      int
	maxJumpers      int
	maxJumperLength int
	firstOnly       bool
	limit           int
	svgPath         string
	stlPath         string
	backend         string
)

var solveCmd = &cobra.Command{
	Use:   "solve <file.lisp>",
	Short: "Search for layouts satisfying a board description",
	Long: `Evaluate a board description and enumerate placements and routes
that connect its netlist. Flags override the bounds set by the script's
(bounds ...) form. Pass -1 for an unbounded limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().IntVar(&maxDrilled, "max-drilled", 0, "max drilled holes, -1 for unbounded")
	solveCmd.Flags().IntVar(&maxJumpers, "max-jumpers", 0, "max jumper wires, -1 for unbounded")
	solveCmd.Flags().IntVar(&maxJumperLength, "max-jumper-length", 0, "max jumper span in holes, -1 for unbounded")
	solveCmd.Flags().BoolVar(&firstOnly, "first-only", false, "stop after the first layout")
	solveCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many layouts (0 = all)")
	solveCmd.Flags().StringVar(&svgPath, "svg", "", "write layouts as SVG to this file")
	solveCmd.Flags().StringVar(&stlPath, "stl", "", "write the first layout as binary STL to this file")
	solveCmd.Flags().StringVar(&backend, "backend", "dfs", "search backend: dfs or sat")
}

func runSolve(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(args[0])
	if err != nil {
		return err
	}
	applyBoundFlags(cmd, p)

	var seq iter.Seq[placer.Solution]
	switch backend {
	case "dfs":
		s, err := placer.New(*p)
		if err != nil {
			return describeConfig(err)
		}
		seq = s.Solutions()
	case "sat":
		b, err := sat.New(*p)
		if err != nil {
			return describeConfig(err)
		}
		seq = b.Solutions()
	default:
		return fmt.Errorf("unknown backend %q (want dfs or sat)", backend)
	}

	var sols []placer.Solution
	for sol := range seq {
		sols = append(sols, sol)
		printSolution(cmd, len(sols), sol, p)
		if limit > 0 && len(sols) >= limit {
			break
		}
	}
	if len(sols) == 0 {
		return errors.New("no layout satisfies the description within its bounds")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d layout(s) found\n", len(sols))

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return fmt.Errorf("writing SVG: %w", err)
		}
		defer f.Close()
		render.WriteSVG(f, *p, sols)
	}
	if stlPath != "" {
		meshes, err := scene.Build(*p, sols[0], sdfx.New())
		if err != nil {
			return fmt.Errorf("building 3D scene: %w", err)
		}
		f, err := os.Create(stlPath)
		if err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
		defer f.Close()
		if err := scene.WriteSTL(f, meshes); err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
	}
	return nil
}

// loadProblem reads and evaluates a board description file.
func loadProblem(path string) (*placer.Problem, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", path, e.Line, e.Col, e.Message)
		}
		return nil, fmt.Errorf("%d error(s) in %s", len(evalErrs), path)
	}
	return p, nil
}

// applyBoundFlags overrides script bounds with any flags the user set.
func applyBoundFlags(cmd *cobra.Command, p *placer.Problem) {
	if cmd.Flags().Changed("max-drilled") {
		p.Bounds.MaxDrilled = maxDrilled
	}
	if cmd.Flags().Changed("max-jumpers") {
		p.Bounds.MaxJumpers = maxJumpers
	}
	if cmd.Flags().Changed("max-jumper-length") {
		p.Bounds.MaxJumperLength = maxJumperLength
	}
	if cmd.Flags().Changed("first-only") {
		p.Bounds.FirstOnly = firstOnly
	}
}

// describeConfig flattens a ConfigError into one finding per line.
func describeConfig(err error) error {
	var cfg *placer.ConfigError
	if errors.As(err, &cfg) {
		for _, f := range cfg.Findings {
			fmt.Fprintln(os.Stderr, f)
		}
		return fmt.Errorf("%d problem(s) in the board description", len(cfg.Findings))
	}
	return err
}

func printSolution(cmd *cobra.Command, n int, sol placer.Solution, p *placer.Problem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "layout %d:\n", n)
	for i, pl := range sol.Placements {
		inst := p.Instances[i]
		fmt.Fprintf(out, "  %s at %s orientation %d\n", inst.Label, pl.Origin, pl.Orient)
	}
	for _, d := range sol.Drilled {
		fmt.Fprintf(out, "  drill %s\n", d)
	}
	for _, j := range sol.Jumpers {
		fmt.Fprintf(out, "  jumper %s\n", j)
	}
}
