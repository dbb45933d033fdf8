package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date string `validate:"omitempty,date"`
	Time string `validate:"omitempty,clock"`
	Zone string `validate:"omitempty,timezone"`
	Code string `validate:"omitempty,numeric_code"`
}

func TestStruct_CustomTags(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		ok   bool
	}{
		{"valid all", sample{Date: "1990-02-28", Time: "07:30", Zone: "Asia/Kolkata", Code: "012345"}, true},
		{"seconds clock", sample{Time: "23:59:59"}, true},
		{"bad date", sample{Date: "1990-02-30"}, false},
		{"slashed date", sample{Date: "1990/02/03"}, false},
		{"bad clock", sample{Time: "25:00"}, false},
		{"bad zone", sample{Zone: "Mars/Olympus"}, false},
		{"local zone", sample{Zone: "Local"}, false},
		{"letters in code", sample{Code: "12a456"}, false},
		{"long code", sample{Code: "12345678901"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStruct_MessageNamesFieldAndTag(t *testing.T) {
	err := Struct(sample{Code: "abc"})
	assert.EqualError(t, err, "field 'Code' failed 'numeric_code'")
}
