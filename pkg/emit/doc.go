// Package emit renders a generated DAG into the canonical graph document
// (JSON) and a plain-text spoiler, the outputs the CLI writes (spec.md
// §6). RenderSVG and WriteSVG draw a debug SVG; the CLI does not call them.
package emit
