// Package config holds the build-sass settings record, its schema and the
// stores that serve it.
package config

import "go.trai.ch/zerr"

// Namespace prefixes every persisted key.
const Namespace = "build-sass"

// Setting keys, relative to Namespace.
const (
	KeyPathToSass          = "pathToSass"
	KeyCustomSassArguments = "customSassArguments"
	KeyCustomScssArguments = "customScssArguments"
	KeyManageDependencies  = "manageDependencies"
	KeyAlwaysEligible      = "alwaysEligible"
	KeyDebug               = "debug"
)

// DefaultPathToSass is used when pathToSass is unset or empty.
const DefaultPathToSass = "sass"

var (
	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)

// Settings is a snapshot of the user-facing options.
type Settings struct {
	PathToSass          string
	CustomSassArguments string
	CustomScssArguments string
	ManageDependencies  bool
	AlwaysEligible      bool
	Debug               bool
}

// Defaults returns the settings every store starts from.
func Defaults() Settings {
	return Settings{
		PathToSass:          DefaultPathToSass,
		CustomSassArguments: "--style compressed {FILE_ACTIVE} {FILE_ACTIVE_NAME_BASE}.min.css",
		CustomScssArguments: "--scss --style compressed {FILE_ACTIVE} {FILE_ACTIVE_NAME_BASE}.min.css",
		ManageDependencies:  true,
		AlwaysEligible:      false,
		Debug:               false,
	}
}

// Changed lists the keys whose values differ between a and b, in schema order.
func Changed(a, b Settings) []string {
	var keys []string
	if a.PathToSass != b.PathToSass {
		keys = append(keys, KeyPathToSass)
	}
	if a.CustomSassArguments != b.CustomSassArguments {
		keys = append(keys, KeyCustomSassArguments)
	}
	if a.CustomScssArguments != b.CustomScssArguments {
		keys = append(keys, KeyCustomScssArguments)
	}
	if a.ManageDependencies != b.ManageDependencies {
		keys = append(keys, KeyManageDependencies)
	}
	if a.AlwaysEligible != b.AlwaysEligible {
		keys = append(keys, KeyAlwaysEligible)
	}
	if a.Debug != b.Debug {
		keys = append(keys, KeyDebug)
	}
	return keys
}
