// Package screens registers all list screens with the core registry.
// Import this package to ensure all screens are registered.
package screens

// This file exists to provide a single import point.
// Each screen file uses init() to register its screen.
