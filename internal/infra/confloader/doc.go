// Package confloader layers configuration sources with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults (LoadMap)
//  2. YAML file
//  3. .env files, applied to the process environment without overriding it
//  4. Environment variables with the configured prefix
//  5. Flags (LoadMap again, after the others)
//
// Watcher reports edits to the YAML file so long-running shells can
// re-read it.
package confloader
