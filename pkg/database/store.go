package database

import (
	"context"
	_ "embed"
	"sync"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

var (
	//go:embed data/database.yaml
	builtinData []byte

	//go:embed data/apple-cpu-fallback.yaml
	appleCPUFallbackData []byte

	storeOnce   sync.Once
	cachedStore *Store
	cachedErr   error
)

// Store holds the knowledge bases compiled into the binary.
// It is immutable once returned by LoadStore.
type Store struct {
	// Builtin is the general tuning database.
	Builtin KnowledgeBase

	// AppleCPUFallback is consulted first for Apple OpenCL CPU devices.
	AppleCPUFallback KnowledgeBase
}

// KernelRef identifies one entry of a knowledge base.
type KernelRef struct {
	Kernel    string    `json:"kernel" yaml:"kernel"`
	Precision Precision `json:"precision" yaml:"precision"`
}

// LoadStore parses the embedded tables on first use and returns the same
// *Store to every caller afterwards. A parse failure is cached as well.
func LoadStore(_ context.Context) (*Store, error) {
	storeOnce.Do(func() {
		builtin, err := parseKnowledgeBase(builtinData)
		if err != nil {
			cachedErr = tderrors.Wrap(tderrors.ErrCodeInternal, "failed to parse built-in database", err)
			return
		}
		apple, err := parseKnowledgeBase(appleCPUFallbackData)
		if err != nil {
			cachedErr = tderrors.Wrap(tderrors.ErrCodeInternal, "failed to parse apple cpu fallback database", err)
			return
		}
		cachedStore = &Store{
			Builtin:          builtin,
			AppleCPUFallback: apple,
		}
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedStore == nil {
		return nil, tderrors.New(tderrors.ErrCodeInternal, "tuning store not initialized")
	}
	return cachedStore, nil
}

// SpecialCases returns the special-case policies backed by this store.
func (s *Store) SpecialCases() []SpecialCase {
	return []SpecialCase{AppleCPUFallback(s.AppleCPUFallback)}
}

// Kernels lists the distinct kernel/precision pairs of the built-in database in table order.
func (s *Store) Kernels() []KernelRef {
	return s.Builtin.Kernels()
}

// Kernels lists the distinct kernel/precision pairs in table order.
func (kb KnowledgeBase) Kernels() []KernelRef {
	seen := make(map[KernelRef]struct{}, len(kb))
	refs := make([]KernelRef, 0, len(kb))
	for _, e := range kb {
		ref := KernelRef{Kernel: e.Kernel, Precision: e.Precision}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// KernelNames lists the distinct kernel names in table order.
func (kb KnowledgeBase) KernelNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range kb {
		if _, ok := seen[e.Kernel]; ok {
			continue
		}
		seen[e.Kernel] = struct{}{}
		names = append(names, e.Kernel)
	}
	return names
}
