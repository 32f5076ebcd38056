// Package config holds cyberwatchdog's runtime configuration.
//
// Values come from three layers, later ones winning: built-in defaults
// (NewConfig), the optional YAML file .cyberwatchdog (File.Apply), and CLI
// flags. The classifier API token is never read from the YAML file; it is
// taken from the HF_API_TOKEN environment variable or a .env file.
package config
