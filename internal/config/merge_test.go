package config

import (
	"sync"
	"testing"
)

func TestWasExplicitlySet(t *testing.T) {
	tests := []struct {
		name     string
		flags    map[string]bool
		flagName string
		want     bool
	}{
		{
			name:     "nil flags map",
			flags:    nil,
			flagName: "include-external",
			want:     false,
		},
		{
			name:     "empty flags map",
			flags:    map[string]bool{},
			flagName: "include-external",
			want:     false,
		},
		{
			name:     "flag not set",
			flags:    map[string]bool{"exclude-type-checking": true},
			flagName: "include-external",
			want:     false,
		},
		{
			name:     "flag set to true",
			flags:    map[string]bool{"include-external": true},
			flagName: "include-external",
			want:     true,
		},
		{
			name:     "flag set to false",
			flags:    map[string]bool{"include-external": false},
			flagName: "include-external",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WasExplicitlySet(tt.flags, tt.flagName); got != tt.want {
				t.Errorf("WasExplicitlySet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeString(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		override string
		flagName string
		flags    map[string]bool
		want     string
	}{
		{
			name:     "cache-dir flag not set, use config value",
			base:     ".dotgraph-cache",
			override: "/tmp/override-cache",
			flagName: "cache-dir",
			flags:    map[string]bool{},
			want:     ".dotgraph-cache",
		},
		{
			name:     "cache-dir flag set, use CLI value",
			base:     ".dotgraph-cache",
			override: "/tmp/override-cache",
			flagName: "cache-dir",
			flags:    map[string]bool{"cache-dir": true},
			want:     "/tmp/override-cache",
		},
		{
			name:     "nil flags, use config value",
			base:     ".dotgraph-cache",
			override: "/tmp/override-cache",
			flagName: "cache-dir",
			flags:    nil,
			want:     ".dotgraph-cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeString(tt.base, tt.override, tt.flagName, tt.flags); got != tt.want {
				t.Errorf("MergeString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeInt(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		override int
		flagName string
		flags    map[string]bool
		want     int
	}{
		{
			name:     "max-depth flag not set, use config value",
			base:     10,
			override: 3,
			flagName: "max-depth",
			flags:    map[string]bool{},
			want:     10,
		},
		{
			name:     "max-depth flag set, use CLI value",
			base:     10,
			override: 3,
			flagName: "max-depth",
			flags:    map[string]bool{"max-depth": true},
			want:     3,
		},
		{
			name:     "max-depth flag set with zero override",
			base:     10,
			override: 0,
			flagName: "max-depth",
			flags:    map[string]bool{"max-depth": true},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeInt(tt.base, tt.override, tt.flagName, tt.flags); got != tt.want {
				t.Errorf("MergeInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeBool(t *testing.T) {
	tests := []struct {
		name     string
		base     bool
		override bool
		flagName string
		flags    map[string]bool
		want     bool
	}{
		{
			name:     "include-external flag not set, config true wins",
			base:     true,
			override: false,
			flagName: "include-external",
			flags:    map[string]bool{},
			want:     true,
		},
		{
			name:     "include-external flag not set, config false wins",
			base:     false,
			override: true,
			flagName: "include-external",
			flags:    map[string]bool{},
			want:     false,
		},
		{
			name:     "include-external flag set, CLI false wins",
			base:     true,
			override: false,
			flagName: "include-external",
			flags:    map[string]bool{"include-external": true},
			want:     false,
		},
		{
			name:     "exclude-type-checking flag set, CLI true wins",
			base:     false,
			override: true,
			flagName: "exclude-type-checking",
			flags:    map[string]bool{"exclude-type-checking": true},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeBool(tt.base, tt.override, tt.flagName, tt.flags); got != tt.want {
				t.Errorf("MergeBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeFloat64(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		override float64
		flagName string
		flags    map[string]bool
		want     float64
	}{
		{
			name:     "min-confidence flag not set, use config value",
			base:     0.5,
			override: 0.9,
			flagName: "min-confidence",
			flags:    map[string]bool{},
			want:     0.5,
		},
		{
			name:     "min-confidence flag set, use CLI value",
			base:     0.5,
			override: 0.9,
			flagName: "min-confidence",
			flags:    map[string]bool{"min-confidence": true},
			want:     0.9,
		},
		{
			name:     "min-confidence flag set with zero override",
			base:     0.5,
			override: 0.0,
			flagName: "min-confidence",
			flags:    map[string]bool{"min-confidence": true},
			want:     0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeFloat64(tt.base, tt.override, tt.flagName, tt.flags); got != tt.want {
				t.Errorf("MergeFloat64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeStringSlice(t *testing.T) {
	tests := []struct {
		name     string
		base     []string
		override []string
		flagName string
		flags    map[string]bool
		want     []string
	}{
		{
			name:     "exclude flag not set, use config patterns",
			base:     []string{"**/tests/**", "**/migrations/**"},
			override: []string{"**/vendor/**"},
			flagName: "exclude",
			flags:    map[string]bool{},
			want:     []string{"**/tests/**", "**/migrations/**"},
		},
		{
			name:     "exclude flag set, use CLI patterns",
			base:     []string{"**/tests/**", "**/migrations/**"},
			override: []string{"**/vendor/**"},
			flagName: "exclude",
			flags:    map[string]bool{"exclude": true},
			want:     []string{"**/vendor/**"},
		},
		{
			name:     "include flag set with empty override, keep config patterns",
			base:     []string{"src/**"},
			override: []string{},
			flagName: "include",
			flags:    map[string]bool{"include": true},
			want:     []string{"src/**"},
		},
		{
			name:     "include flag not set, both empty",
			base:     []string{},
			override: []string{},
			flagName: "include",
			flags:    map[string]bool{},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeStringSlice(tt.base, tt.override, tt.flagName, tt.flags)
			if len(got) != len(tt.want) {
				t.Errorf("MergeStringSlice() len = %v, want len %v", len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("MergeStringSlice()[%d] = %v, want %v", i, v, tt.want[i])
				}
			}
		})
	}
}

// TestConcurrentAccess reads one changed-flags map from several
// goroutines at once through every merge helper, confirming the
// helpers need no locking of their own (cmd/dotgraph itself calls them
// from a single goroutine).
func TestConcurrentAccess(t *testing.T) {
	flags := map[string]bool{
		"include-external":      true,
		"exclude-type-checking": false,
		"cache-dir":             true,
	}

	var wg sync.WaitGroup
	iterations := 100
	goroutines := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_ = WasExplicitlySet(flags, "include-external")
				_ = MergeString(".dotgraph-cache", "/tmp/cache", "cache-dir", flags)
				_ = MergeInt(10, 3, "max-depth", flags)
				_ = MergeBool(true, false, "exclude-type-checking", flags)
				_ = MergeFloat64(0.5, 0.9, "include-external", flags)
				_ = MergeStringSlice([]string{"src/**"}, []string{"**/vendor/**"}, "cache-dir", flags)
			}
		}()
	}

	wg.Wait()
}
