package request_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/account-api/internal/adapter/handler/dto/request"
)

func TestUpdateAccountDetailsRequest_PhoneNumber(t *testing.T) {
	tests := []struct {
		name string
		body string
		want request.NumericString
	}{
		{name: "string", body: `{"phonenumber":"5551234567"}`, want: "5551234567"},
		{name: "number", body: `{"phonenumber":5551234567}`, want: "5551234567"},
		{name: "number beyond int64", body: `{"phonenumber":55512345678901234567}`, want: "55512345678901234567"},
		{name: "non-digit string is kept for validation", body: `{"phonenumber":"555-1234"}`, want: "555-1234"},
		{name: "null", body: `{"phonenumber":null}`, want: ""},
		{name: "missing", body: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req request.UpdateAccountDetailsRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.PhoneNumber)
		})
	}

	t.Run("boolean is rejected", func(t *testing.T) {
		var req request.UpdateAccountDetailsRequest
		assert.Error(t, json.Unmarshal([]byte(`{"phonenumber":true}`), &req))
	})
}
