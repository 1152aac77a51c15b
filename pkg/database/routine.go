package database

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
	"github.com/kernel-tuning/tunedb/pkg/header"
)

// Kernel lists of routines that compile more than one kernel.
var (
	GemmRoutineKernels = []string{"Copy", "Pad", "Transpose", "Padtranspose", "Xgemm", "XgemmDirect", "GemmRoutine"}
	GemvRoutineKernels = []string{"Xgemv", "XgemvFast", "XgemvFastRot"}
	TrsmRoutineKernels = []string{"Copy", "Pad", "Transpose", "Padtranspose", "Xgemm", "XgemmDirect", "GemmRoutine", "Invert"}
)

// RoutineKernels returns the kernel list of a named routine: gemm, gemv or trsm.
func RoutineKernels(name string) ([]string, bool) {
	var kernels []string
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemm":
		kernels = GemmRoutineKernels
	case "gemv":
		kernels = GemvRoutineKernels
	case "trsm":
		kernels = TrsmRoutineKernels
	default:
		return nil, false
	}
	return append([]string(nil), kernels...), true
}

// RoutineNames returns the names accepted by RoutineKernels.
func RoutineNames() []string {
	return []string{"gemm", "gemv", "trsm"}
}

// Routine holds one Database per kernel of a routine, in kernel order.
type Routine struct {
	Kernels   []string
	Databases []*Database
}

// BuildRoutine resolves every kernel concurrently. It fails if any kernel
// cannot be resolved, returning the first error in kernel order.
func (b *Builder) BuildRoutine(ctx context.Context, dev DeviceInfo, kernels []string, p Precision, overlay KnowledgeBase) (*Routine, error) {
	return buildRoutine(ctx, b, dev, kernels, p, overlay)
}

// BuildRoutine is Builder.BuildRoutine through the cache.
func (c *CachedBuilder) BuildRoutine(ctx context.Context, dev DeviceInfo, kernels []string, p Precision, overlay KnowledgeBase) (*Routine, error) {
	return buildRoutine(ctx, c, dev, kernels, p, overlay)
}

func buildRoutine(ctx context.Context, r Resolver, dev DeviceInfo, kernels []string, p Precision, overlay KnowledgeBase) (*Routine, error) {
	if len(kernels) == 0 {
		return nil, tderrors.New(tderrors.ErrCodeInvalidRequest, "routine has no kernels")
	}

	dbs := make([]*Database, len(kernels))
	errs := make([]error, len(kernels))

	var g errgroup.Group
	for i, kernel := range kernels {
		g.Go(func() error {
			db, err := r.Build(ctx, dev, kernel, p, overlay)
			if err != nil {
				errs[i] = err
				return err
			}
			dbs[i] = db
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// first failure in kernel order, not the first to finish
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}

	return &Routine{
		Kernels:   append([]string(nil), kernels...),
		Databases: dbs,
	}, nil
}

// Database returns the resolution for one kernel of the routine.
func (r *Routine) Database(kernel string) (*Database, bool) {
	for i, k := range r.Kernels {
		if k == kernel {
			return r.Databases[i], true
		}
	}
	return nil, false
}

// Get returns the first value named name, searching kernels in order.
func (r *Routine) Get(name string) (int, bool) {
	for _, db := range r.Databases {
		if v, ok := db.Get(name); ok {
			return v, true
		}
	}
	return 0, false
}

// Defines concatenates the define text of every kernel in order.
func (r *Routine) Defines() string {
	var b strings.Builder
	for _, db := range r.Databases {
		b.WriteString(db.Defines())
	}
	return b.String()
}

// RoutineResult is the serializable form of a Routine.
type RoutineResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Device  Identity  `json:"device" yaml:"device"`
	Kernels []*Result `json:"kernels" yaml:"kernels"`
}

// Result returns the serializable form, stamped with the generator version.
func (r *Routine) Result(version string) *RoutineResult {
	rr := &RoutineResult{
		Kernels: make([]*Result, 0, len(r.Databases)),
	}
	for _, db := range r.Databases {
		res := db.Result(version)
		res.Header = header.Header{}
		rr.Kernels = append(rr.Kernels, res)
		rr.Device = db.Identity
	}
	rr.Init(header.KindRoutineParameters, version)
	return rr
}
