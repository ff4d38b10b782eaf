package arch

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
)

// maxGenerated bounds generator sizes.
const maxGenerated = 1024

// Device is a named coupling graph builder.
type Device struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Qubits      int    `json:"qubits"`

	build func() (*coupling.Graph, error)
}

// NewDevice returns a device whose graph is g.
func NewDevice(name, description string, g *coupling.Graph) Device {
	return Device{
		Name:        name,
		Description: description,
		Qubits:      g.Size(),
		build:       func() (*coupling.Graph, error) { return g, nil },
	}
}

// Graph builds the device's coupling graph.
func (d Device) Graph() (*coupling.Graph, error) {
	return d.build()
}

// Catalog resolves device names to coupling graphs.
type Catalog struct {
	devices map[string]Device
}

// NewCatalog returns a catalog holding the built-in devices.
func NewCatalog() *Catalog {
	c := &Catalog{devices: make(map[string]Device)}
	for _, d := range builtins() {
		c.devices[d.Name] = d
	}
	return c
}

// Register adds or replaces a device.
func (c *Catalog) Register(d Device) error {
	if err := errors.ValidateName(d.Name); err != nil {
		return err
	}
	if d.build == nil {
		return errors.New(errors.ErrCodeInvalidArch, "device %q has no graph", d.Name)
	}
	c.devices[strings.ToLower(d.Name)] = d
	return nil
}

// Devices returns the registered devices sorted by name.
func (c *Catalog) Devices() []Device {
	out := make([]Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Device) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the registered device names, sorted.
func (c *Catalog) Names() []string {
	devices := c.Devices()
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name
	}
	return names
}

// Lookup resolves a registered name or a generator spec such as "grid:3x4".
func (c *Catalog) Lookup(name string) (Device, error) {
	if err := errors.ValidateName(name); err != nil {
		return Device{}, err
	}
	name = strings.ToLower(name)
	if d, ok := c.devices[name]; ok {
		return d, nil
	}
	kind, size, ok := strings.Cut(name, ":")
	if !ok {
		return Device{}, errors.New(errors.ErrCodeNotFound, "unknown architecture %q", name)
	}
	return generated(kind, size)
}

// Graph is shorthand for Lookup followed by Device.Graph.
func (c *Catalog) Graph(name string) (*coupling.Graph, error) {
	d, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	return d.Graph()
}

func generated(kind, size string) (Device, error) {
	if kind == "grid" {
		rs, cs, ok := strings.Cut(size, "x")
		if !ok {
			return Device{}, errors.New(errors.ErrCodeInvalidName, "grid size must be RxC, got %q", size)
		}
		rows, err1 := strconv.Atoi(rs)
		cols, err2 := strconv.Atoi(cs)
		if err1 != nil || err2 != nil || rows < 1 || cols < 1 || rows*cols > maxGenerated {
			return Device{}, errors.New(errors.ErrCodeInvalidName, "invalid grid size %q", size)
		}
		return Device{
			Name:        fmt.Sprintf("grid:%dx%d", rows, cols),
			Description: fmt.Sprintf("%dx%d grid", rows, cols),
			Qubits:      rows * cols,
			build:       func() (*coupling.Graph, error) { return Grid(rows, cols) },
		}, nil
	}

	n, err := strconv.Atoi(size)
	if err != nil || n < 1 || n > maxGenerated {
		return Device{}, errors.New(errors.ErrCodeInvalidName, "invalid %s size %q", kind, size)
	}
	var build func(int) (*coupling.Graph, error)
	switch kind {
	case "line":
		build = Line
	case "ring":
		build = Ring
	case "full":
		build = Full
	default:
		return Device{}, errors.New(errors.ErrCodeNotFound, "unknown generator %q", kind)
	}
	return Device{
		Name:        fmt.Sprintf("%s:%d", kind, n),
		Description: fmt.Sprintf("%d-qubit %s", n, kind),
		Qubits:      n,
		build:       func() (*coupling.Graph, error) { return build(n) },
	}, nil
}
