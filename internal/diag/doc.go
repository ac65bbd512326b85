// Package diag defines the diagnostic model shared by the parser, the style
// loader and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form, a short Message, the Primary source.Span and optional Notes
// pointing at additional context.
//
// Producers emit through a Reporter, usually via ReportError(...).WithNote(...).Emit().
// BagReporter collects into a Bag, which supports sorting and deduplication.
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
