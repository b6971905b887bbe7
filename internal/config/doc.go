// Package config reads and writes the user settings file
// (~/.agent-skills/config.yaml by default). Settings are loaded once into a
// Config value; nothing else in the module reads viper directly.
package config
