// Package config loads, normalizes, and validates meshpreview configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DISCORD_TOKEN environment
// fallback. The Config type centralizes every knob the bot and CLI need:
// staging and log directories, external tool paths, render geometry, and
// Discord wiring.
package config
