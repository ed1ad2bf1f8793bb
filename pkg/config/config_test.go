package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/opmeter/pkg/errors"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.True(t, s.PrintCategory)
	assert.True(t, s.PrintOperation)
	assert.True(t, s.PrintPosition)
	assert.True(t, s.LogData)
	assert.Positive(t, s.ProgressPeriod)
	assert.NoError(t, s.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opmeter.yaml")
	content := `printCategory: false
progressPeriod: 5s
timeLimit: 250ms
redactKeys: ["*password*", "token"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.PrintCategory)
	assert.True(t, s.PrintPosition, "absent keys keep defaults")
	assert.Equal(t, 5*time.Second, s.ProgressPeriod)
	assert.Equal(t, 250*time.Millisecond, s.TimeLimit)
	assert.Equal(t, []string{"*password*", "token"}, s.RedactKeys)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("progressPeriod: [oops"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("timeLimit: -1s"), 0o600))
	_, err = Load(negative)
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, s Settings)
		wantErr bool
	}{
		{
			name: "no overrides",
			env:  map[string]string{},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, Default(), s)
			},
		},
		{
			name: "booleans and durations",
			env: map[string]string{
				"OPMETER_PRINT_CATEGORY":  "false",
				"OPMETER_TELEMETRY":       "true",
				"OPMETER_PROGRESS_PERIOD": "1s",
				"OPMETER_TIME_LIMIT":      "3ms",
			},
			check: func(t *testing.T, s Settings) {
				assert.False(t, s.PrintCategory)
				assert.True(t, s.Telemetry)
				assert.Equal(t, time.Second, s.ProgressPeriod)
				assert.Equal(t, 3*time.Millisecond, s.TimeLimit)
			},
		},
		{
			name: "redact keys",
			env:  map[string]string{"OPMETER_REDACT_KEYS": " secret* , ,token"},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, []string{"secret*", "token"}, s.RedactKeys)
			},
		},
		{
			name:    "bad boolean",
			env:     map[string]string{"OPMETER_LOG_DATA": "maybe"},
			wantErr: true,
		},
		{
			name:    "bad duration",
			env:     map[string]string{"OPMETER_TIME_LIMIT": "soon"},
			wantErr: true,
		},
		{
			name:    "negative duration",
			env:     map[string]string{"OPMETER_PROGRESS_PERIOD": "-1s"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			s, err := fromEnv(Default(), lookup)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, Default(), s, "base returned on error")
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestStore(t *testing.T) {
	keys := []string{"a*"}
	s := Default()
	s.RedactKeys = keys
	st := NewStore(s)

	keys[0] = "mutated"
	assert.Equal(t, []string{"a*"}, st.Current().RedactKeys, "store keeps its own copy")

	got := st.Current()
	got.RedactKeys[0] = "changed"
	assert.Equal(t, []string{"a*"}, st.Current().RedactKeys, "callers get a copy")

	s.TimeLimit = time.Second
	st.Set(s)
	assert.Equal(t, time.Second, st.Current().TimeLimit)
}

func TestStore_Concurrent(t *testing.T) {
	st := NewStore(Default())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := Default()
			s.TimeLimit = time.Duration(i) * time.Millisecond
			st.Set(s)
			_ = st.Current()
		}(i)
	}
	wg.Wait()
	assert.GreaterOrEqual(t, st.Current().TimeLimit, time.Duration(0))
}

func TestZeroStoreReturnsDefault(t *testing.T) {
	var st Store
	assert.Equal(t, Default(), st.Current())
}
