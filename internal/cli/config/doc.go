// Package config holds the CLI configuration (~/.brainscan/cli.yaml).
//
// Sources, lowest priority first: built-in defaults, the YAML file, a .env
// file in the working directory, BRAINSCAN_* environment variables, then
// command-line flags. VITE_API_URL is accepted as a fallback for api.url so
// an existing dashboard .env keeps working.
package config
