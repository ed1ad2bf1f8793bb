package formatter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

func fullMeasurement() *measurement.Measurement {
	return measurement.NewBuilder("billing.invoice", "render/pdf").
		Session("5ab6c7d8-0000-4000-8000-000000000001").
		Position(math.MaxInt64).
		Parent("billing.invoice/render").
		Description("quotes \" and ; and } inside").
		Times(10, 20, 3000, 3000).
		Limit(sec).
		Iterations(7, 9).
		Put("z-first", "1").
		Put("a-second", "x=y;z}").
		Put("unicode", "naïve ✓").
		Fail("TIMEOUT", "deadline exceeded\nafter retry").
		System(measurement.SystemStatus{
			HeapUsed: 1 << 20, HeapCommitted: 2 << 20, HeapMax: 4 << 30,
			NonHeapUsed: 65536, NonHeapCommitted: 1 << 22,
			Goroutines: 12, Threads: 8, GCCount: 3, GCTime: 150000,
			RuntimeMemory: 8 << 20, ResidentMemory: 16 << 20, SystemLoad: 0.42,
		}).
		Build()
}

func TestEncode_KeyOrder(t *testing.T) {
	m := measurement.NewBuilder("cat", "op").Position(2).Times(5, 6, 0, 9).Put("k", "v").Build()
	assert.Equal(t, `{pos=2;cat="cat";op="op";t0=5;t1=6;tn=9;ctx={"k":"v"}}`, Encode(m))
	assert.Equal(t, "{}", Encode(&measurement.Measurement{}))
}

func TestEncodeParse_RoundTrip(t *testing.T) {
	tests := map[string]*measurement.Measurement{
		"empty":     {},
		"scheduled": measurement.NewBuilder("c", "").Position(1).Times(1, 0, 0, 2).Build(),
		"ok":        measurement.NewBuilder("c", "o").Position(1).Times(1, 2, 3, 4).Iterations(1, 2).OK("").Build(),
		"reject":    measurement.NewBuilder("c", "o").Times(1, 2, 3, 3).Reject("busy", "queue full").Build(),
		"full":      fullMeasurement(),
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			line := Encode(m)
			got, err := Parse(line)
			require.NoError(t, err, line)
			assert.Empty(t, measurement.Diff(m, got), line)
			assert.Equal(t, m.Context.Keys(), got.Context.Keys())
			assert.Equal(t, line, Encode(got))
		})
	}
}

func TestParse_Whitespace(t *testing.T) {
	got, err := Parse("  {pos=1;cat=\"c\"}\n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Position)
	assert.Equal(t, "c", got.Category)
}

func TestParse_Malformed(t *testing.T) {
	lines := []string{
		"",
		"pos=1",
		"{pos=1",
		"pos=1}",
		"{pos=1}x",
		"{pos=abc}",
		"{pos=1;pos=2}",
		"{bogus=1}",
		"{Pos=1}",
		"{cat=unquoted}",
		"{cat=\"open}",
		"{cat='single'}",
		"{out=MAYBE}",
		"{out=}",
		"{pos=1;}",
		"{pos=1,cat=\"c\"}",
		"{ctx=[]}",
		"{ctx={\"a\":1}}",
		"{ctx={\"a\":\"1\",\"a\":\"2\"}}",
		"{ctx={\"a\":\"1\"}",
		"{sl=high}",
		"{=1}",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			got, err := Parse(line)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestIsEncoded(t *testing.T) {
	assert.True(t, IsEncoded(Encode(fullMeasurement())))
	assert.True(t, IsEncoded("{}"))
	assert.False(t, IsEncoded(`{"msg":"x"}`))
	assert.False(t, IsEncoded("OK: c#1 1.0ms"))
	assert.False(t, IsEncoded("{"))
}
