// Package render draws page trees as node-link diagrams.
//
// # Overview
//
// This package turns a tree and its computed layout into Graphviz DOT
// source, then renders it in-process to SVG. The main route runs along the
// top row; branches fan out below it on their own lanes, connected by
// dashed edges.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	lay := layout.Calculate(t)
//	dot := render.ToDOT(t, lay, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// For PDF or PNG output, use the conversion functions:
//
//	pdf, err := render.RenderPDF(dot)
//	png, err := render.RenderPNG(dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package render
