// Package annotate runs the microbial annotation pipeline end to end.
//
// Annotate is the pure core: given a parsed feature table and the two
// reference catalogues it normalizes identifiers, joins every tool against
// every catalogue, assigns confidence tiers, summarizes the matching tools and
// propagates each tier through the molecular network. Runner wraps the core
// with file loading, an exclusive output lock, logging and run history.
package annotate
