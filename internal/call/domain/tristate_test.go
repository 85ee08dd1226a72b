package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTriState(t *testing.T) {
	yes := true
	no := false

	cases := []struct {
		name string
		in   any
		want TriState
	}{
		{"nil", nil, TriTBD},
		{"bool true", true, TriYes},
		{"bool false", false, TriNo},
		{"bool pointer nil", (*bool)(nil), TriTBD},
		{"bool pointer true", &yes, TriYes},
		{"bool pointer false", &no, TriNo},
		{"string true", "true", TriYes},
		{"string yes", "YES", TriYes},
		{"string one", "1", TriYes},
		{"string false", "false", TriNo},
		{"string no", "no", TriNo},
		{"string zero", "0", TriNo},
		{"string null", "null", TriTBD},
		{"string empty", "", TriTBD},
		{"string padded", "  True ", TriYes},
		{"tristate passthrough", TriNo, TriNo},
		{"tristate invalid", TriState("maybe"), TriTBD},
		{"number", 7, TriTBD},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ParseTriState(tc.in))
		})
	}
}

func TestTriStateBool(t *testing.T) {
	require.Nil(t, TriTBD.Bool())

	yes := TriYes.Bool()
	require.NotNil(t, yes)
	require.True(t, *yes)

	no := TriNo.Bool()
	require.NotNil(t, no)
	require.False(t, *no)
}

func TestCallIsAds(t *testing.T) {
	require.True(t, Call{SourceType: "fb-ads"}.IsAds())
	require.True(t, Call{SourceType: "ADVERT"}.IsAds())
	require.False(t, Call{SourceType: "organic"}.IsAds())
	require.False(t, Call{SourceType: ""}.IsAds())
}
