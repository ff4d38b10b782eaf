// Package render draws coupling graphs with Graphviz.
//
// [ToDOT] produces DOT source for a device. Physical qubits become nodes
// labelled with their name and, when a mapping is given, the virtual qubit
// they hold. Native couplings are solid arrows from control to target;
// couplings added by reverse closure are dashed. Edge usage counts, usually
// derived from a solution with [Usage], thicken the edges a solution relies
// on.
//
//	dot := render.ToDOT(g, render.Options{Mapping: sol.Initial, Usage: render.Usage(g, ops)})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [Render] also produces PNG through the embedded Graphviz engine.
package render
