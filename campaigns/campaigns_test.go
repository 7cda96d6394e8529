package campaigns_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/postpilot/dashboard/campaigns"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Run("plain date string", func(t *testing.T) {
		var d campaigns.Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-06-01"`), &d))
		require.Equal(t, campaigns.NewDate(2024, time.June, 1), d)
	})

	t.Run("RFC3339 timestamp", func(t *testing.T) {
		var d campaigns.Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T15:30:00Z"`), &d))
		require.Equal(t, "2024-06-01", d.Format(campaigns.DateFormat))
	})

	t.Run("null and empty mean unset", func(t *testing.T) {
		for _, raw := range []string{`null`, `""`} {
			var d campaigns.Date
			require.NoError(t, json.Unmarshal([]byte(raw), &d))
			require.True(t, d.IsZero())
		}
	})

	t.Run("garbage is an error", func(t *testing.T) {
		var d campaigns.Date
		require.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	})
}

func TestDate_MarshalJSON(t *testing.T) {
	t.Run("set date renders as plain date", func(t *testing.T) {
		out, err := json.Marshal(campaigns.NewDate(2024, time.June, 1))
		require.NoError(t, err)
		require.Equal(t, `"2024-06-01"`, string(out))
	})

	t.Run("zero date renders as null", func(t *testing.T) {
		out, err := json.Marshal(campaigns.Date{})
		require.NoError(t, err)
		require.Equal(t, `null`, string(out))
	})
}

func TestCampaign_JSON(t *testing.T) {
	raw := `{"id":3,"name":"June push","description":"summer launch","start_date":"2024-06-01","end_date":"2024-06-30"}`

	var c campaigns.Campaign
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.Equal(t, int64(3), c.ID)
	require.Equal(t, "June push", c.Name)
	require.Equal(t, campaigns.NewDate(2024, time.June, 1), c.StartDate)
	require.Equal(t, campaigns.NewDate(2024, time.June, 30), c.EndDate)
}
