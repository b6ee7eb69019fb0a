package model

import (
	"testing"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAssignsContiguousIDs(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()

	c1, err := r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.NoError(err)
	require.Equal(1, c1.ID)

	c2, err := r.Add(Connection{Topic: "/b", Type: "std_msgs/String"})
	require.NoError(err)
	require.Equal(2, c2.ID)
}

func TestRegistry_DuplicateTopicTypeRejected(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	_, err := r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.NoError(err)

	_, err = r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.ErrorIs(err, errs.ErrConnectionAlreadyExists)
}

func TestRegistry_SameTopicDifferentTypeAllowed(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	_, err := r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.NoError(err)

	_, err = r.Add(Connection{Topic: "/a", Type: "std_msgs/Int32"})
	require.NoError(err)
}

func TestRegistry_ByTopicType(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	_, err := r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.NoError(err)

	c, ok := r.ByTopicType("/a", "std_msgs/String")
	require.True(ok)
	require.Equal("/a", c.Topic)

	_, ok = r.ByTopicType("/missing", "std_msgs/String")
	require.False(ok)
}

func TestRegistry_Counts(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	c, err := r.Add(Connection{Topic: "/a", Type: "std_msgs/String"})
	require.NoError(err)

	r.IncrementCount(c.ID)
	r.IncrementCount(c.ID)

	got, ok := r.ByID(c.ID)
	require.True(ok)
	require.Equal(uint64(2), got.MessageCount)

	r.SetCount(c.ID, 100)
	got, _ = r.ByID(c.ID)
	require.Equal(uint64(100), got.MessageCount)
}

func TestRegistry_RejectsEmptyTopic(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	_, err := r.Add(Connection{Type: "std_msgs/String"})
	require.Error(err)
}
