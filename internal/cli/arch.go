package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qmap/pkg/arch"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	pkgio "github.com/matzehuels/qmap/pkg/io"
	"github.com/matzehuels/qmap/pkg/render"
)

// archCommand creates the arch command group.
func (c *CLI) archCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arch",
		Short: "Inspect device architectures",
		Long: `Inspect device architectures.

Devices are built-in names such as ibmqx2 and ibmq_tokyo, or generator specs:
line:N, ring:N, grid:RxC and full:N.`,
	}

	cmd.AddCommand(c.archListCommand())
	cmd.AddCommand(c.archShowCommand())
	cmd.AddCommand(c.archRenderCommand())
	cmd.AddCommand(c.archPickCommand())

	return cmd
}

// archListCommand creates the "arch list" subcommand.
func (c *CLI) archListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), deviceTable(arch.NewCatalog().Devices()))
			return nil
		},
	}
}

// archShowCommand creates the "arch show" subcommand.
func (c *CLI) archShowCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a device's coupling graph",
		Example: `  qmap arch show ibmqx2
  qmap arch show grid:2x3 --format yaml
  qmap arch show ibmq_tokyo -o tokyo.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := arch.NewCatalog().Lookup(args[0])
			if err != nil {
				return err
			}
			g, err := d.Graph()
			if err != nil {
				return err
			}
			if output != "" {
				if err := pkgio.ExportArch(g, output); err != nil {
					return err
				}
				printSuccess("Exported %s", StyleHighlight.Render(d.Name))
				printFile(output)
				return nil
			}
			if format != "" {
				f, err := pkgio.ParseFormat(format)
				if err != nil {
					return err
				}
				return pkgio.WriteArch(cmd.OutOrStdout(), g, f)
			}
			printDevice(d, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "print the graph as json, toml, yaml or text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to a file, format from its extension")
	return cmd
}

func printDevice(d arch.Device, g *coupling.Graph) {
	fmt.Println(StyleTitle.Render(d.Name))
	if d.Description != "" {
		printDetail("%s", d.Description)
	}
	printKeyValue("qubits", strconv.Itoa(g.Size()))
	native, synthetic := 0, 0
	for _, e := range g.Edges() {
		if g.IsReverseEdge(e.From, e.To) {
			synthetic++
		} else {
			native++
		}
	}
	printKeyValue("native", strconv.Itoa(native))
	printKeyValue("reversible", strconv.Itoa(synthetic))
	printKeyValue("connected", strconv.FormatBool(g.Connected()))
	for u := 0; u < g.Size(); u++ {
		var names []string
		for _, v := range g.Succ(u) {
			if !g.IsReverseEdge(u, v) {
				names = append(names, g.Name(v))
			}
		}
		if len(names) > 0 {
			printDetail("%s %s %v", g.Name(u), iconArrow, names)
		}
	}
}

// archRenderCommand creates the "arch render" subcommand.
func (c *CLI) archRenderCommand() *cobra.Command {
	var (
		file   string
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "render [NAME]",
		Short: "Render a device's coupling graph",
		Example: `  qmap arch render ibmq_tokyo -o tokyo.svg
  qmap arch render --file device.toml -f png -o device.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				g     *coupling.Graph
				title string
				err   error
			)
			switch {
			case file != "":
				g, err = pkgio.ImportArch(file)
				title = file
			case len(args) == 1:
				g, err = arch.NewCatalog().Graph(args[0])
				title = args[0]
			default:
				return fmt.Errorf("device name or --file is required")
			}
			if err != nil {
				return err
			}

			data, err := render.Render(cmd.Context(), render.ToDOT(g, render.Options{Title: title}), format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Rendered %s", StyleHighlight.Render(title))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "architecture file instead of a device name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatSVG, "output format: svg, dot, png")
	return cmd
}

// archPickCommand creates the "arch pick" subcommand.
func (c *CLI) archPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick a device interactively and print its name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.pickArch()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
