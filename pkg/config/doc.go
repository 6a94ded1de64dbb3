// Package config loads kbatch configuration files.
//
// A [Loader] decodes YAML into any [v1beta1.Object], validating it against
// a JSON schema first so that errors point at the offending line.
package config
