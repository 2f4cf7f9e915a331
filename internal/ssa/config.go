package ssa

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SignedDivRewritePolicy controls whether the construction API attempts the
// signed-integer-division-by-power-of-two -> shift peephole. A source
// language's rounding behavior for negative dividends isn't always fully
// specified; rather than guess, the policy is an explicit, documented
// configuration knob.
type SignedDivRewritePolicy string

const (
	// SignedDivRewriteRoundTowardZero performs the rewrite using a
	// correction term that preserves round-toward-zero semantics for
	// negative dividends: (x + ((x >> (width-1)) >>> (width-log2(d)))) >> log2(d),
	// where >> is arithmetic and >>> is logical.
	SignedDivRewriteRoundTowardZero SignedDivRewritePolicy = "round-toward-zero"
	// SignedDivRewriteDecline never rewrites a signed Div by a power of two,
	// leaving it as a signed Div for the back end to lower. Chosen when
	// a front end cannot certify round-toward-zero correction is safe for
	// its source language's division semantics.
	SignedDivRewriteDecline SignedDivRewritePolicy = "decline"
)

// AbsIntMinPolicy controls the result of Abs(IntMin) for a signed integer
// type, which has no single universally correct answer across source
// languages.
type AbsIntMinPolicy string

const (
	// AbsIntMinSaturate returns IntMax for Abs(IntMin), matching saturating
	// arithmetic back ends that never want to observe a sign flip to itself.
	AbsIntMinSaturate AbsIntMinPolicy = "saturate"
	// AbsIntMinUnchanged returns IntMin unchanged (the two's-complement
	// wraparound result), matching C/C++ UB-but-common-practice semantics.
	AbsIntMinUnchanged AbsIntMinPolicy = "unchanged"
)

// FieldChainResolutionPolicy controls what GetField does with the producer
// that ends its walk back through a chain of SetField operations. The walk
// is the same under both policies: it returns the value stored by the first
// SetField of the requested field, passes SetFields of other fields, and
// stops at the first producer that is not a SetField. GetArrayElement's walk
// through SetArrayElement chains does not consult this policy.
type FieldChainResolutionPolicy string

const (
	// FieldChainResolveThroughUnknownBase reads the field directly out of a
	// CreateStructure producer; any other producer becomes the base of a
	// newly emitted GetField. A null or zero base is not resolved to a zero
	// value.
	FieldChainResolveThroughUnknownBase FieldChainResolutionPolicy = "through-unknown-base"
	// FieldChainStopAtFirstUnknownBase emits a GetField against whatever
	// producer ends the walk, a CreateStructure included.
	FieldChainStopAtFirstUnknownBase FieldChainResolutionPolicy = "stop-at-first-unknown-base"
)

// Config collects the implementation decisions this package otherwise
// leaves open, plus toggles for the optional post-construction sweeps the
// rebuilder and method builder may run. The zero Config is invalid; use
// DefaultConfig.
type Config struct {
	SignedDivRewrite   SignedDivRewritePolicy     `yaml:"signed_div_rewrite"`
	AbsIntMin          AbsIntMinPolicy            `yaml:"abs_int_min"`
	FieldChainResolve  FieldChainResolutionPolicy `yaml:"field_chain_resolve"`
	RunDeadBlockSweep  bool                       `yaml:"run_dead_block_sweep"`
	RunDeadCodeSweep   bool                       `yaml:"run_dead_code_sweep"`
	EnableTraceLogging bool                       `yaml:"enable_trace_logging"`
}

// DefaultConfig returns the decisions this implementation makes for every
// open construction question, documented inline rather than left implicit.
func DefaultConfig() Config {
	return Config{
		SignedDivRewrite:   SignedDivRewriteRoundTowardZero,
		AbsIntMin:          AbsIntMinSaturate,
		FieldChainResolve:  FieldChainResolveThroughUnknownBase,
		RunDeadBlockSweep:  true,
		RunDeadCodeSweep:   true,
		EnableTraceLogging: false,
	}
}

// LoadConfig reads a Config from a YAML file, defaulting any field the file
// omits to DefaultConfig's value. A missing file is not an error: it simply
// yields DefaultConfig, since every field already has a documented default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
