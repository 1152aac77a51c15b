package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agnivade/levenshtein"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

// Knowledge base names reported in Database.Source and in errors.
const (
	SourceOverlay = "overlay"
	SourceBuiltin = "builtin"
)

// ErrDatabaseExhausted is the cause of the error returned when no knowledge
// base has tuning data for the requested device, kernel and precision.
var ErrDatabaseExhausted = errors.New("no tuning data for this device/kernel/precision combination")

var defaultBuilder = NewBuilder()

// Resolver is implemented by Builder and CachedBuilder.
type Resolver interface {
	Build(ctx context.Context, dev DeviceInfo, kernel string, p Precision, overlay KnowledgeBase) (*Database, error)
}

var (
	_ Resolver = (*Builder)(nil)
	_ Resolver = (*CachedBuilder)(nil)
)

// Option is a functional option for configuring Builder instances.
// Options are applied in order.
type Option func(*Builder)

// WithStore uses the built-in database and the special cases of s instead
// of the embedded store.
func WithStore(s *Store) Option {
	return func(b *Builder) {
		b.builtin = s.Builtin
		b.specialCases = s.SpecialCases()
		b.useEmbedded = false
	}
}

// WithBuiltin replaces the built-in knowledge base. No special cases are
// installed unless WithSpecialCases follows.
func WithBuiltin(kb KnowledgeBase) Option {
	return func(b *Builder) {
		b.builtin = kb
		b.specialCases = nil
		b.useEmbedded = false
	}
}

// WithSpecialCases replaces the special-case policies. Policies are
// consulted in order; every hit is placed ahead of the overlay, the first
// policy taking the highest priority.
func WithSpecialCases(policies ...SpecialCase) Option {
	return func(b *Builder) {
		b.specialCases = policies
		b.specialCasesSet = true
	}
}

// WithVendorAliases replaces the vendor alias table.
func WithVendorAliases(aliases VendorAliases) Option {
	return func(b *Builder) {
		b.aliases = aliases
	}
}

// NewBuilder creates a Builder. Without options it searches the embedded
// store loaded by LoadStore, with the Apple CPU fallback policy enabled.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		aliases:     defaultVendorAliases,
		useEmbedded: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Builder resolves tuning parameters by searching, in priority order, the
// special-case knowledge bases, the caller's overlay and the built-in
// database. It holds no mutable state and is safe for concurrent use.
type Builder struct {
	builtin         KnowledgeBase
	specialCases    []SpecialCase
	specialCasesSet bool
	aliases         VendorAliases
	useEmbedded     bool
}

// New resolves parameters with a shared default Builder.
func New(ctx context.Context, dev DeviceInfo, kernel string, p Precision, overlay KnowledgeBase) (*Database, error) {
	return defaultBuilder.Build(ctx, dev, kernel, p, overlay)
}

// candidate is one knowledge base in search order.
type candidate struct {
	name string
	kb   KnowledgeBase
}

// Build resolves the parameters of kernel at precision p for dev.
//
// The vendor string is normalized once, then the candidate knowledge bases
// are searched in order and the first one with a complete
// kernel/vendor/device chain wins, even when that chain ends in a wildcard.
// When none matches, the returned error wraps ErrDatabaseExhausted.
func (b *Builder) Build(ctx context.Context, dev DeviceInfo, kernel string, p Precision, overlay KnowledgeBase) (*Database, error) {
	if dev == nil {
		return nil, tderrors.New(tderrors.ErrCodeInvalidRequest, "device cannot be nil")
	}
	if kernel == "" {
		return nil, tderrors.New(tderrors.ErrCodeInvalidRequest, "kernel name cannot be empty")
	}
	if !p.IsConcrete() {
		return nil, tderrors.New(tderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid precision %q, supported values: %v", p, ConcretePrecisions()))
	}
	if err := ctx.Err(); err != nil {
		return nil, tderrors.Wrap(tderrors.ErrCodeTimeout, "context cancelled", err)
	}

	start := time.Now()
	defer func() {
		resolutionDuration.Observe(time.Since(start).Seconds())
	}()

	builtin, specialCases, err := b.sources(ctx)
	if err != nil {
		resolutionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	target := Target{
		Kernel:    kernel,
		Precision: p,
		Type:      dev.Type(),
		Vendor:    b.aliases.Normalize(dev.Vendor()),
		Device:    dev.Name(),
	}

	candidates := buildCandidates(dev, specialCases, overlay, builtin)
	for _, c := range candidates {
		found, ok := Search(c.kb, target)
		if !ok {
			slog.Debug("no match in knowledge base",
				"source", c.name,
				"kernel", target.Kernel,
				"precision", target.Precision.String(),
				"vendor", target.Vendor,
				"device", target.Device,
			)
			continue
		}

		params := &Parameters{}
		params.Merge(found)

		resolutionTotal.WithLabelValues(c.name).Inc()
		slog.Debug("resolved tuning parameters",
			"source", c.name,
			"kernel", target.Kernel,
			"precision", target.Precision.String(),
			"vendor", target.Vendor,
			"device", target.Device,
			"parameters", params.Len(),
		)

		return &Database{
			Target:   target,
			Identity: IdentityOf(dev),
			Source:   c.name,
			params:   params,
		}, nil
	}

	resolutionTotal.WithLabelValues("exhausted").Inc()
	return nil, exhaustedError(target, dev, candidates)
}

// sources returns the built-in knowledge base and special-case policies,
// loading the embedded store when the builder was not given one.
func (b *Builder) sources(ctx context.Context) (KnowledgeBase, []SpecialCase, error) {
	if !b.useEmbedded {
		return b.builtin, b.specialCases, nil
	}
	store, err := LoadStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	specialCases := store.SpecialCases()
	if b.specialCasesSet {
		specialCases = b.specialCases
	}
	return store.Builtin, specialCases, nil
}

// buildCandidates orders the knowledge bases: special cases, overlay, built-in.
func buildCandidates(dev DeviceInfo, specialCases []SpecialCase, overlay, builtin KnowledgeBase) []candidate {
	candidates := make([]candidate, 0, len(specialCases)+2)
	for _, sc := range specialCases {
		if name, kb, ok := sc(dev); ok {
			candidates = append(candidates, candidate{name: name, kb: kb})
		}
	}
	candidates = append(candidates,
		candidate{name: SourceOverlay, kb: overlay},
		candidate{name: SourceBuiltin, kb: builtin},
	)
	return candidates
}

// exhaustedError builds the DatabaseExhausted failure with enough detail
// for an operator to author the missing entry.
func exhaustedError(t Target, dev DeviceInfo, candidates []candidate) error {
	searched := make([]string, 0, len(candidates))
	known := make(map[string]struct{})
	var names []string
	for _, c := range candidates {
		searched = append(searched, c.name)
		for _, name := range c.kb.KernelNames() {
			if _, ok := known[name]; !ok {
				known[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	details := map[string]any{
		"kernel":     t.Kernel,
		"precision":  t.Precision.String(),
		"deviceType": t.Type,
		"vendor":     t.Vendor,
		"rawVendor":  dev.Vendor(),
		"device":     t.Device,
		"searched":   searched,
	}
	if _, ok := known[t.Kernel]; !ok {
		if s := suggestKernel(t.Kernel, names); s != "" {
			details["suggestion"] = s
		}
	}

	msg := fmt.Sprintf("no tuning parameters for kernel %q at %s precision on %s device %q from vendor %q",
		t.Kernel, t.Precision, t.Type, t.Device, dev.Vendor())
	return tderrors.WrapWithContext(tderrors.ErrCodeNotFound, msg, ErrDatabaseExhausted, details)
}

// suggestKernel returns the known kernel name closest to name, or "" when
// nothing is reasonably close.
func suggestKernel(name string, known []string) string {
	best := ""
	bestDist := -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(name, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
