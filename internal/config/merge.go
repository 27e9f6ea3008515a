// Package config's merge helpers implement the precedence dotgraph.toml
// and Cobra flags resolve under: a config file value is the default,
// and a CLI flag only overrides it when the user actually typed that
// flag. cmd/dotgraph/utils.go's flagsChanged builds the `flags` map
// from cmd.Flags().Changed per command invocation; config_helper.go's
// applyConfigDefaults is the only caller, one field of domain.BuildRequest
// at a time (include/exclude patterns, cache-dir, include-external,
// exclude-type-checking).
package config

// WasExplicitlySet reports whether the user passed flagName on the
// command line for this invocation, as opposed to it carrying its
// Cobra zero-value default.
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// MergeString resolves a string field: override (the CLI value) wins
// only when flagName was explicitly set, otherwise base (the config
// file value, or its built-in default) is kept.
func MergeString(base, override, flagName string, flags map[string]bool) string {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeInt resolves an int field under the same explicit-flag rule as
// MergeString.
func MergeInt(base, override int, flagName string, flags map[string]bool) int {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeBool resolves a bool field under the same explicit-flag rule as
// MergeString. Needed because a bare Cobra bool flag can't distinguish
// "user passed --include-external=false" from "user never touched it"
// without consulting Changed() itself.
func MergeBool(base, override bool, flagName string, flags map[string]bool) bool {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeFloat64 resolves a float64 field under the same explicit-flag
// rule as MergeString.
func MergeFloat64(base, override float64, flagName string, flags map[string]bool) float64 {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeStringSlice resolves a repeated-flag field (include/exclude
// glob patterns): override replaces base only when the flag was set
// AND carries at least one value, so an explicitly-set but empty
// --exclude doesn't silently erase the config file's patterns.
func MergeStringSlice(base, override []string, flagName string, flags map[string]bool) []string {
	if WasExplicitlySet(flags, flagName) && len(override) > 0 {
		return override
	}
	return base
}
