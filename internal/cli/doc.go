// Package cli defines the Cobra command tree for skillkit. Each file
// registers one top-level command with the root command. Commands only parse
// flags and render output; resolution, validation, installation and
// discovery are delegated to the internal packages.
package cli
