// Package preflight provides readiness checks for the files and directories
// an annotation run depends on.
//
// `microtag config validate` runs every check and prints the results so a
// misconfigured path or a renamed column is reported before a long run
// starts. Checks never modify the filesystem.
package preflight
