// Package config loads compiler settings.
//
// Settings come from YAML or CUE files. Both formats accept partial files:
// fields left out keep their Default values. CUE files are unified with an
// embedded #Config schema before decoding, so type and range errors are
// reported with file positions.
package config
