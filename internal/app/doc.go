// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the conversion lifecycle (load, validate,
// write, optionally submit), decoupled from any specific entrypoint like a
// CLI.
package app
