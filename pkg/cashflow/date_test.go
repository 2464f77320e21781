package cashflow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"date only", `"2026-03-15"`, "2026-03-15", false},
		{"rfc3339", `"2026-03-15T22:10:00Z"`, "2026-03-15", false},
		{"null", `null`, "", false},
		{"empty", `""`, "", false},
		{"garbage", `"15/03/2026"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Date  `json:"a"`
		B Date  `json:"b"`
		C *Date `json:"c,omitempty"`
	}{A: DateOf(2026, time.July, 4, nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2026-07-04","b":null}`, string(out))
}

func TestDate_In(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	d := DateOf(2026, time.July, 4, nil).In(loc)
	assert.Equal(t, "2026-07-04", d.Key())
	assert.Equal(t, loc, d.Location())
	assert.True(t, Date{}.In(loc).IsZero())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28", nil)
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDate("2026-02-30", nil)
	assert.Error(t, err)
}

func TestDate_AddDays(t *testing.T) {
	d := DateOf(2026, time.February, 27, time.UTC)
	assert.Equal(t, "2026-03-01", d.AddDays(2).Key())
	assert.Equal(t, "2026-02-20", d.AddDays(-7).Key())
}
