package kb

import (
	"slices"

	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/policy"
)

type options struct {
	infrastructure []int
	customInfra    bool
	sink           ir.DiagnosticSink
	ids            BuildIDGenerator
}

func defaultOptions() options {
	return options{
		infrastructure: policy.InfrastructureClasses(),
		sink:           ir.NopSink,
		ids:            UUIDv7Generator{},
	}
}

// Option configures Build.
type Option func(*options)

// WithInfrastructure replaces the frozen infrastructure constant. Intended
// for fixtures whose grammar is smaller than the production one; the
// override is part of the build fingerprint.
func WithInfrastructure(ids ...int) Option {
	return func(o *options) {
		o.infrastructure = slices.Clone(ids)
		o.customInfra = true
	}
}

// WithSink forwards each diagnostic to sink as it is emitted.
func WithSink(sink ir.DiagnosticSink) Option {
	return func(o *options) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithBuildIDGenerator overrides the UUIDv7 build id generator.
func WithBuildIDGenerator(g BuildIDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}
