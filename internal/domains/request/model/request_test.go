package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"Pending", StatusPending},
		{"pending", StatusPending},
		{" APPROVED ", StatusApproved},
		{"Rejected", StatusRejected},
		{"declined", StatusRejected},
		{"fulfilled", StatusFulfilled},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreateRequestValidate(t *testing.T) {
	assert.NoError(t, CreateRequest{Title: "Dune", Category: "Fiction"}.Validate())
	assert.Error(t, CreateRequest{Category: "Fiction"}.Validate())
	assert.Error(t, CreateRequest{Title: "Dune"}.Validate())
}

func TestUpdateRequestValidate(t *testing.T) {
	bad := "not-a-uuid"
	assert.NoError(t, UpdateRequest{Status: "declined"}.Validate())
	assert.Error(t, UpdateRequest{Status: "archived"}.Validate())
	assert.Error(t, UpdateRequest{Status: "Fulfilled", FulfilledBookID: &bad}.Validate())
}
