package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"3s"`), &d))
	assert.Equal(t, 3*time.Second, d.Duration)
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1500000000`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"xx"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
