package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
	pkgio "github.com/matzehuels/qmap/pkg/io"
	"github.com/matzehuels/qmap/pkg/pipeline"
)

// allocateOpts holds the command-line flags for the allocate command.
type allocateOpts struct {
	arch        string // catalog name or generator spec
	archFile    string // architecture file, overrides arch
	circuit     string // circuit file, "-" for JSON on stdin
	allocator   string
	maxChildren int
	maxPartial  int
	swap        int
	reversal    int
	estimate    int
	seed        uint64
	topK        int
	output      string // output file (single format) or base path
	mapFile     string // write the initial mapping here
	rewrite     string // write the circuit as executed on the device here
	formats     string
	noCache     bool
	refresh     bool
}

// allocateCommand creates the allocate command.
func (c *CLI) allocateCommand() *cobra.Command {
	var opts allocateOpts

	cmd := &cobra.Command{
		Use:   "allocate [circuit]",
		Short: "Map a circuit onto a device",
		Long: `Map a circuit onto a device.

The circuit is a JSON, TOML or YAML file with num_qubits and a list of gates.
Two-qubit gates become placement constraints; gates on three or more qubits
are rejected. The device is a built-in name (see "qmap arch list"), a
generator spec such as grid:4x4, or an architecture file.`,
		Example: `  qmap allocate bell.json --arch ibmqx2
  qmap allocate qft.yaml --arch grid:3x3 -f json,svg -o out/qft
  qmap allocate circ.json --arch-file device.arch --allocator bmt-topk --top-k 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.circuit = args[0]
			}
			if opts.circuit == "" {
				return fmt.Errorf("circuit file is required")
			}
			return c.runAllocate(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.arch, "arch", "a", "", "device name or generator spec (line:N, ring:N, grid:RxC, full:N)")
	f.StringVar(&opts.archFile, "arch-file", "", "architecture file (json, toml, yaml or text)")
	f.StringVarP(&opts.circuit, "circuit", "c", "", "circuit file (or pass as argument)")
	f.StringVar(&opts.allocator, "allocator", "", "allocator: bmt (default), bmt-random, bmt-topk, bmt-exact")
	f.IntVar(&opts.maxChildren, "max-children", 0, "candidates kept per parent (0 = default)")
	f.IntVar(&opts.maxPartial, "max-partial", 0, "candidates kept per dependency (0 = default)")
	f.IntVar(&opts.swap, "swap-cost", 0, "cost of one SWAP (default 7)")
	f.IntVar(&opts.reversal, "reverse-cost", 0, "cost of one reversed CNOT (default 4)")
	f.IntVar(&opts.estimate, "estimate-weight", 0, "weight of the swap estimate between layers (default 1)")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for bmt-random (default 42)")
	f.IntVar(&opts.topK, "top-k", 0, "terminal mappings explored by bmt-topk (default 4)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&opts.mapFile, "map-file", "", "write the initial mapping to this file")
	f.StringVar(&opts.rewrite, "rewrite", "", "write the circuit over physical qubits to this file (json, toml or yaml)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the solution cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached solution exists")

	return cmd
}

func (c *CLI) runAllocate(cmd *cobra.Command, opts *allocateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	circ, err := readCircuit(opts.circuit)
	if err != nil {
		return err
	}

	popts := c.pipelineOptions(cmd, opts)
	popts.Circuit = circ
	popts.Logger = logger

	switch {
	case opts.archFile != "":
		g, err := pkgio.ImportArch(opts.archFile)
		if err != nil {
			return err
		}
		popts.Graph = g
		popts.Arch = strings.TrimSuffix(filepath.Base(opts.archFile), filepath.Ext(opts.archFile))
	case opts.arch != "":
		popts.Arch = opts.arch
	case isInteractive():
		name, err := c.pickArch()
		if err != nil {
			return err
		}
		popts.Arch = name
	default:
		return fmt.Errorf("--arch or --arch-file is required")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Allocating %d gates...", len(circ.Gates)))
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Allocation failed")
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Allocated %d instructions", res.Stats.Instructions))

	paths, err := writeArtifacts(res, popts.Formats, opts.output, opts.circuit)
	if err != nil {
		return err
	}
	if opts.mapFile != "" {
		if err := writeMapFile(opts.mapFile, res); err != nil {
			return err
		}
		paths = append(paths, opts.mapFile)
	}
	if opts.rewrite != "" {
		if err := writeRewritten(opts.rewrite, circ, res); err != nil {
			return err
		}
		paths = append(paths, opts.rewrite)
	}

	if len(paths) == 0 {
		return nil
	}
	printSuccess("Mapped %s onto %s with %s", StyleValue.Render(opts.circuit), StyleHighlight.Render(res.Arch), res.Allocator)
	printSolutionStats(res.Stats, res.CacheInfo.Hit)
	printMapping(res.Solution.Initial.String())
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// pipelineOptions merges the config file with explicitly set flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts *allocateOpts) pipeline.Options {
	cfg := c.Config
	p := pipeline.Options{
		Allocator:   cfg.Allocator.Name,
		MaxChildren: cfg.Allocator.MaxChildren,
		MaxPartial:  cfg.Allocator.MaxPartial,
		Costs:       cfg.Costs,
		Seed:        cfg.Allocator.Seed,
		TopK:        cfg.Allocator.TopK,
		Refresh:     opts.refresh,
		Formats:     parseFormats(opts.formats),
	}
	f := cmd.Flags()
	if f.Changed("allocator") {
		p.Allocator = opts.allocator
	}
	if f.Changed("max-children") {
		p.MaxChildren = opts.maxChildren
	}
	if f.Changed("max-partial") {
		p.MaxPartial = opts.maxPartial
	}
	if f.Changed("swap-cost") {
		p.Costs.SwapWeight = opts.swap
	}
	if f.Changed("reverse-cost") {
		p.Costs.ReversalWeight = opts.reversal
	}
	if f.Changed("estimate-weight") {
		p.Costs.EstimateWeight = opts.estimate
	}
	if f.Changed("seed") {
		p.Seed = opts.seed
	}
	if f.Changed("top-k") {
		p.TopK = opts.topK
	}
	return p
}

func readCircuit(path string) (*circuit.Circuit, error) {
	if path == "-" {
		return pkgio.ReadCircuit(os.Stdin, pkgio.FormatJSON)
	}
	return pkgio.ImportCircuit(path)
}

// writeArtifacts writes one file per format. A single JSON artifact with no
// output path goes to stdout.
func writeArtifacts(res *pipeline.Result, formats []string, output, circuitPath string) ([]string, error) {
	if output == "" && len(formats) == 1 && formats[0] == pipeline.FormatJSON {
		_, err := os.Stdout.Write(res.Artifacts[pipeline.FormatJSON])
		return nil, err
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(circuitPath, filepath.Ext(circuitPath)) + ".mapped"
		if circuitPath == "-" {
			base = "circuit.mapped"
		}
	}

	var paths []string
	for _, f := range formats {
		path := base
		if len(formats) > 1 || output == "" {
			path = strings.TrimSuffix(base, "."+f) + "." + f
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeMapFile(path string, res *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return pkgio.WriteMapping(f, res.Solution)
}

// writeRewritten writes circ as executed on the device, with SWAPs inserted
// and reversed CNOTs conjugated by Hadamards.
func writeRewritten(path string, circ *circuit.Circuit, res *pipeline.Result) error {
	format, err := pkgio.FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := res.Solution.Rewrite(circ, res.Graph)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return pkgio.WriteCircuit(f, out, format)
}
