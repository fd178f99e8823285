// Package config provides configuration structures and utilities for burpscan.
// It defines the scanner connection settings, the site to register, polling
// behaviour and report preferences, and loads them from a YAML file.
package config
