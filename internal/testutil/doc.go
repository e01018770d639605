// Package testutil provides fixtures and helpers shared by the test suites.
package testutil
