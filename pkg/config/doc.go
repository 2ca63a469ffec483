// Package config provides configuration loading, validation, and defaults
// for the Aegis governance decision core.
//
// Configuration is loaded from a YAML file, defaults are applied for any
// unset fields, and the result is validated before use. Environment
// variables using the AEGIS_SECTION_FIELD convention override file values.
package config
