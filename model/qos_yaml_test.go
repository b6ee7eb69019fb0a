package model

import (
	"testing"

	"github.com/rosbaglib/bagcore/format"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQoSProfiles_LegacyStringRoundTrip(t *testing.T) {
	require := require.New(t)

	in := QoSProfiles{Legacy: "- history: 3\n  depth: 0\n"}

	out, err := yaml.Marshal(in)
	require.NoError(err)

	var back QoSProfiles
	require.NoError(yaml.Unmarshal(out, &back))
	require.Equal(in.Legacy, back.Legacy)
	require.Empty(back.Profiles)
}

func TestQoSProfiles_ListRoundTrip(t *testing.T) {
	require := require.New(t)

	in := QoSProfiles{Profiles: []QoS{
		{
			History:     format.HistoryKeepLast,
			Depth:       10,
			Reliability: format.ReliabilityReliable,
			Durability:  format.DurabilityVolatile,
			Deadline:    Duration{Sec: 1, Nsec: 500},
		},
	}}

	out, err := yaml.Marshal(in)
	require.NoError(err)

	var back QoSProfiles
	require.NoError(yaml.Unmarshal(out, &back))
	require.Len(back.Profiles, 1)
	require.Equal(format.HistoryKeepLast, back.Profiles[0].History)
	require.Equal(int64(10), back.Profiles[0].Depth)
	require.Equal(int64(1), back.Profiles[0].Deadline.Sec)
}

func TestQoSProfiles_EmptyRoundTrip(t *testing.T) {
	require := require.New(t)

	var in QoSProfiles

	out, err := yaml.Marshal(in)
	require.NoError(err)

	var back QoSProfiles
	require.NoError(yaml.Unmarshal(out, &back))
	require.True(back.Empty())
}
