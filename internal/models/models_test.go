package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleBool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`"yes"`, true, false},
		{`1`, true, false},
		{`"off"`, false, false},
		{`null`, false, false},
		{`"maybe"`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var fb FlexibleBool
			err := json.Unmarshal([]byte(tt.input), &fb)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fb.Bool())
		})
	}
}

func TestEvent_IsFull(t *testing.T) {
	event := Event{MaximumSlots: 100}
	assert.False(t, event.IsFull(99))
	assert.True(t, event.IsFull(100))

	unlimited := Event{}
	assert.False(t, unlimited.IsFull(1000))
}

func TestTicketType_SoldOut(t *testing.T) {
	assert.True(t, TicketType{MaximumQuantity: 10, CurrentSales: 10}.SoldOut())
	assert.False(t, TicketType{MaximumQuantity: 10, CurrentSales: 3}.SoldOut())
	assert.False(t, TicketType{}.SoldOut())
}

func TestRegistrationForm_ApplyPreRegistration(t *testing.T) {
	form := RegistrationForm{Organization: "Old Org", ContactNumber: "0917000000"}
	form.ApplyPreRegistration(&PreRegistration{
		Email:     "juan@example.com",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		JobTitle:  "Engineer",
	})

	assert.Equal(t, "juan@example.com", form.Email)
	assert.Equal(t, "Juan", form.FirstName)
	assert.Equal(t, "Old Org", form.Organization)
	assert.Equal(t, "0917000000", form.ContactNumber)
	assert.Equal(t, "Engineer", form.JobTitle)
}
