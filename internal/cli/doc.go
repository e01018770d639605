// Package cli turns command-line arguments into an app.Config. It owns the
// flag definitions, the usage text, and the mapping of bad input to exit
// code 2.
package cli
