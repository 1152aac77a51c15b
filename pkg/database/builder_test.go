package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

const appleCaps = "cl_khr_fp64 " + AppleCPUExtension + " cl_khr_icd"

func testBuiltin() KnowledgeBase {
	return KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionSingle, Vendors: []Vendor{
			{Name: VendorNVIDIA, Type: DeviceTypeGPU, Devices: []Device{
				deviceRecord("GeForce GTX 1080", Param{"MWG", 128}, Param{"NWG", 128}, Param{"KWG", 32}),
				deviceRecord(DeviceNameDefault, Param{"MWG", 64}, Param{"NWG", 64}, Param{"KWG", 16}),
			}},
			{Name: VendorAll, Type: DeviceTypeCPU, Devices: []Device{
				deviceRecord(DeviceNameDefault, Param{"MWG", 128}, Param{"NWG", 64}, Param{"KWG", 32}),
			}},
		}},
		{Kernel: "Xaxpy", Precision: PrecisionAny, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{
				deviceRecord(DeviceNameDefault, Param{"VW", 1}, Param{"WGS", 64}, Param{"WPT", 1}),
			}},
		}},
	}
}

func testAppleKB() KnowledgeBase {
	return KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionAny, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{
				deviceRecord(DeviceNameDefault, Param{"MWG", 1}, Param{"NWG", 1}, Param{"KWG", 1}),
			}},
		}},
	}
}

func testBuilder() *Builder {
	return NewBuilder(
		WithBuiltin(testBuiltin()),
		WithSpecialCases(AppleCPUFallback(testAppleKB())),
	)
}

var teslaV100 = NewIdentity(DeviceTypeGPU, "NVIDIA Corporation", "Tesla V100", "cl_khr_fp64")

func TestBuilder_Build_VendorDefaultDevice(t *testing.T) {
	db, err := testBuilder().Build(context.Background(), teslaV100, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)

	assert.Equal(t, "#define MWG 64\n#define NWG 64\n#define KWG 16\n", db.Defines())
	assert.Equal(t, []string{"MWG", "NWG", "KWG"}, db.ParameterNames())
	assert.Equal(t, SourceBuiltin, db.Source)
	assert.Equal(t, VendorNVIDIA, db.Target.Vendor)
	assert.Equal(t, "NVIDIA Corporation", db.Identity.Vendor())

	v, ok := db.Get("KWG")
	assert.True(t, ok)
	assert.Equal(t, 16, v)
	_, ok = db.Get("VWM")
	assert.False(t, ok)
}

func TestBuilder_Build_ExactDevice(t *testing.T) {
	dev := NewIdentity(DeviceTypeGPU, "NVIDIA Corporation", "GeForce GTX 1080", "")
	db, err := testBuilder().Build(context.Background(), dev, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)

	v, _ := db.Get("MWG")
	assert.Equal(t, 128, v)
}

func TestBuilder_Build_OverlayTakesPriority(t *testing.T) {
	overlay := KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionSingle, Vendors: []Vendor{
			{Name: VendorNVIDIA, Type: DeviceTypeGPU, Devices: []Device{
				deviceRecord("Tesla V100", Param{"MWG", 256}, Param{"NWG", 128}),
			}},
		}},
	}

	db, err := testBuilder().Build(context.Background(), teslaV100, "Xgemm", PrecisionSingle, overlay)
	require.NoError(t, err)
	assert.Equal(t, SourceOverlay, db.Source)
	assert.Equal(t, "#define MWG 256\n#define NWG 128\n", db.Defines())
}

func TestBuilder_Build_OverlayWildcardBeatsBuiltinExact(t *testing.T) {
	overlay := KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionAny, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{
				deviceRecord(DeviceNameDefault, Param{"MWG", 8}),
			}},
		}},
	}
	dev := NewIdentity(DeviceTypeGPU, "NVIDIA Corporation", "GeForce GTX 1080", "")

	db, err := testBuilder().Build(context.Background(), dev, "Xgemm", PrecisionSingle, overlay)
	require.NoError(t, err)
	assert.Equal(t, SourceOverlay, db.Source)
	v, _ := db.Get("MWG")
	assert.Equal(t, 8, v)
}

func TestBuilder_Build_OverlayMissFallsThrough(t *testing.T) {
	overlay := KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionDouble, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{deviceRecord(DeviceNameDefault, Param{"MWG", 8})}},
		}},
	}

	db, err := testBuilder().Build(context.Background(), teslaV100, "Xgemm", PrecisionSingle, overlay)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, db.Source)
}

func TestBuilder_Build_SpecialCase(t *testing.T) {
	overlay := KnowledgeBase{
		{Kernel: "Xgemm", Precision: PrecisionSingle, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{deviceRecord(DeviceNameDefault, Param{"MWG", 8})}},
		}},
	}

	tests := []struct {
		name       string
		dev        Identity
		wantSource string
		wantMWG    int
	}{
		{
			name:       "apple cpu beats overlay",
			dev:        NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps),
			wantSource: SourceAppleCPUFallback,
			wantMWG:    1,
		},
		{
			name:       "gpu with marker is not special",
			dev:        NewIdentity(DeviceTypeGPU, "Apple", "Apple M1", appleCaps),
			wantSource: SourceOverlay,
			wantMWG:    8,
		},
		{
			name:       "cpu without marker is not special",
			dev:        NewIdentity(DeviceTypeCPU, "Intel(R) Corporation", "Core i7", "cl_khr_fp64"),
			wantSource: SourceOverlay,
			wantMWG:    8,
		},
		{
			name:       "cpu with empty capabilities is not special",
			dev:        NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", ""),
			wantSource: SourceOverlay,
			wantMWG:    8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := testBuilder().Build(context.Background(), tt.dev, "Xgemm", PrecisionSingle, overlay)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, db.Source)
			v, _ := db.Get("MWG")
			assert.Equal(t, tt.wantMWG, v)
		})
	}
}

func TestBuilder_Build_SpecialCaseMissFallsThrough(t *testing.T) {
	dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)

	db, err := testBuilder().Build(context.Background(), dev, "Xaxpy", PrecisionDouble, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, db.Source)
}

func TestBuilder_Build_SpecialCasesInOrder(t *testing.T) {
	always := func(name string, mwg int) SpecialCase {
		kb := KnowledgeBase{{Kernel: "Xgemm", Precision: PrecisionAny, Vendors: []Vendor{
			{Name: VendorAll, Type: DeviceTypeAll, Devices: []Device{deviceRecord(DeviceNameDefault, Param{"MWG", mwg})}},
		}}}
		return func(DeviceInfo) (string, KnowledgeBase, bool) { return name, kb, true }
	}
	never := func(DeviceInfo) (string, KnowledgeBase, bool) { return "", nil, false }

	b := NewBuilder(WithBuiltin(testBuiltin()), WithSpecialCases(never, always("first", 3), always("second", 4)))
	db, err := b.Build(context.Background(), teslaV100, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", db.Source)
}

func TestBuilder_Build_Exhausted(t *testing.T) {
	_, err := testBuilder().Build(context.Background(), teslaV100, "Xgemm", PrecisionDouble, nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrDatabaseExhausted))

	var se *tderrors.StructuredError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, tderrors.ErrCodeNotFound, se.Code)
	assert.Contains(t, se.Message, "Xgemm")
	assert.Contains(t, se.Message, "double")
	assert.Contains(t, se.Message, "GPU")
	assert.Contains(t, se.Message, "Tesla V100")
	assert.Contains(t, se.Message, "NVIDIA Corporation")

	assert.Equal(t, VendorNVIDIA, se.Context["vendor"])
	assert.Equal(t, "NVIDIA Corporation", se.Context["rawVendor"])
	assert.Equal(t, []string{SourceOverlay, SourceBuiltin}, se.Context["searched"])
	assert.NotContains(t, se.Context, "suggestion", "known kernels get no suggestion")
}

func TestBuilder_Build_ExhaustedReportsSpecialCase(t *testing.T) {
	dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)

	_, err := testBuilder().Build(context.Background(), dev, "Xdot", PrecisionSingle, nil)
	require.ErrorIs(t, err, ErrDatabaseExhausted)

	var se *tderrors.StructuredError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{SourceAppleCPUFallback, SourceOverlay, SourceBuiltin}, se.Context["searched"])
}

func TestBuilder_Build_SuggestsKernel(t *testing.T) {
	tests := []struct {
		kernel string
		want   string
	}{
		{"Xgem", "Xgemm"},
		{"xgemm", "Xgemm"},
		{"Xaxyp", "Xaxpy"},
		{"Transpose", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kernel, func(t *testing.T) {
			_, err := testBuilder().Build(context.Background(), teslaV100, tt.kernel, PrecisionSingle, nil)
			var se *tderrors.StructuredError
			require.True(t, errors.As(err, &se))
			if tt.want == "" {
				assert.NotContains(t, se.Context, "suggestion")
				return
			}
			assert.Equal(t, tt.want, se.Context["suggestion"])
		})
	}
}

func TestBuilder_Build_ResultDoesNotAliasTables(t *testing.T) {
	kb := testBuiltin()
	b := NewBuilder(WithBuiltin(kb))

	db, err := b.Build(context.Background(), teslaV100, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)

	kb[0].Vendors[0].Devices[1].Parameters.Set("MWG", 1)
	v, _ := db.Get("MWG")
	assert.Equal(t, 64, v)

	p := db.Parameters()
	p.Set("MWG", 2)
	v, _ = db.Get("MWG")
	assert.Equal(t, 64, v)
}

func TestBuilder_Build_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		dev    DeviceInfo
		kernel string
		p      Precision
	}{
		{"nil device", nil, "Xgemm", PrecisionSingle},
		{"empty kernel", teslaV100, "", PrecisionSingle},
		{"any precision", teslaV100, "Xgemm", PrecisionAny},
		{"unknown precision", teslaV100, "Xgemm", Precision("quad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testBuilder().Build(context.Background(), tt.dev, tt.kernel, tt.p, nil)
			var se *tderrors.StructuredError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tderrors.ErrCodeInvalidRequest, se.Code)
			assert.False(t, errors.Is(err, ErrDatabaseExhausted))
		})
	}
}

func TestBuilder_Build_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder().Build(ctx, teslaV100, "Xgemm", PrecisionSingle, nil)
	var se *tderrors.StructuredError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, tderrors.ErrCodeTimeout, se.Code)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_WithVendorAliases(t *testing.T) {
	aliases := DefaultVendorAliases()
	aliases["NVIDIA Corp."] = VendorNVIDIA
	b := NewBuilder(WithBuiltin(testBuiltin()), WithVendorAliases(aliases))

	dev := NewIdentity(DeviceTypeGPU, "NVIDIA Corp.", "Tesla V100", "")
	db, err := b.Build(context.Background(), dev, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)
	v, _ := db.Get("MWG")
	assert.Equal(t, 64, v)

	_, err = testBuilder().Build(context.Background(), dev, "Xgemm", PrecisionSingle, nil)
	assert.ErrorIs(t, err, ErrDatabaseExhausted, "unknown spelling is not normalized by default")
}

func TestNew_EmbeddedStore(t *testing.T) {
	ctx := context.Background()

	t.Run("known nvidia device", func(t *testing.T) {
		dev := NewIdentity(DeviceTypeGPU, "NVIDIA Corporation", "Tesla K80", "cl_khr_fp64")
		db, err := New(ctx, dev, "Xgemm", PrecisionSingle, nil)
		require.NoError(t, err)
		assert.Equal(t, SourceBuiltin, db.Source)
		mwg, _ := db.Get("MWG")
		kwg, _ := db.Get("KWG")
		assert.Equal(t, 64, mwg)
		assert.Equal(t, 16, kwg)
	})

	t.Run("unknown vendor falls to the wildcard", func(t *testing.T) {
		dev := NewIdentity(DeviceTypeGPU, "Imagination Technologies", "PowerVR", "")
		for _, p := range ConcretePrecisions() {
			db, err := New(ctx, dev, "Xaxpy", p, nil)
			require.NoError(t, err, p)
			assert.Equal(t, SourceBuiltin, db.Source)
		}
	})

	t.Run("apple cpu", func(t *testing.T) {
		dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)
		db, err := New(ctx, dev, "Xgemm", PrecisionSingle, nil)
		require.NoError(t, err)
		assert.Equal(t, SourceAppleCPUFallback, db.Source)
		mwg, _ := db.Get("MWG")
		assert.Equal(t, 1, mwg)
	})

	t.Run("apple cpu without fallback entry", func(t *testing.T) {
		dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)
		db, err := New(ctx, dev, "GemmRoutine", PrecisionSingle, nil)
		require.NoError(t, err)
		assert.Equal(t, SourceBuiltin, db.Source)
	})

	t.Run("special cases can be disabled", func(t *testing.T) {
		dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)
		db, err := NewBuilder(WithSpecialCases()).Build(ctx, dev, "Xgemm", PrecisionSingle, nil)
		require.NoError(t, err)
		assert.Equal(t, SourceBuiltin, db.Source)
		mwg, _ := db.Get("MWG")
		assert.Equal(t, 128, mwg)
	})

	t.Run("unknown kernel", func(t *testing.T) {
		_, err := New(ctx, teslaV100, "Xgemmm", PrecisionSingle, nil)
		require.ErrorIs(t, err, ErrDatabaseExhausted)
		var se *tderrors.StructuredError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "Xgemm", se.Context["suggestion"])
	})
}

func TestWithStore(t *testing.T) {
	store := &Store{Builtin: testBuiltin(), AppleCPUFallback: testAppleKB()}
	b := NewBuilder(WithStore(store))

	dev := NewIdentity(DeviceTypeCPU, "Apple", "Apple M1", appleCaps)
	db, err := b.Build(context.Background(), dev, "Xgemm", PrecisionSingle, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceAppleCPUFallback, db.Source)
}
