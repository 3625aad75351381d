package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	v, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, v.Hour())
	assert.Equal(t, 30, v.Minute())
	assert.Equal(t, "09:30", v.String())
	assert.Equal(t, "9:30 AM", v.Kitchen())
	assert.Equal(t, "9:05 PM", MustTimeOfDay("21:05").Kitchen())

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12:5"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestSurveyResponseJSONTimes(t *testing.T) {
	in := SurveyResponse{
		UserID:         uuid.New(),
		PreferredStart: MustTimeOfDay("08:00").Ptr(),
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"preferred_start":"08:00"`)
	assert.NotContains(t, string(b), "preferred_end")

	var out SurveyResponse
	require.NoError(t, json.Unmarshal(b, &out))
	require.NotNil(t, out.PreferredStart)
	assert.Equal(t, *in.PreferredStart, *out.PreferredStart)
	assert.Nil(t, out.PreferredEnd)
}

func TestTripTravelersOnlyAccepted(t *testing.T) {
	owner, invited, declined := uuid.New(), uuid.New(), uuid.New()
	trip := Trip{
		OwnerID: owner,
		Members: []TripMember{
			{UserID: owner, Role: RoleCreator, Status: MemberAccepted},
			{UserID: invited, Role: RoleMember, Status: MemberPending},
			{UserID: declined, Role: RoleMember, Status: MemberDeclined},
		},
	}
	assert.Equal(t, []uuid.UUID{owner}, trip.Travelers())
	assert.True(t, trip.IsTraveler(owner))
	assert.False(t, trip.IsTraveler(invited))
	assert.True(t, trip.IsOwner(owner))
	assert.False(t, trip.IsOwner(uuid.Nil))
}
