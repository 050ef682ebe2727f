package request

import (
	"bytes"
	"encoding/json"
)

// Field rules live on the account service inputs so every violation is
// reported per field. These only describe the JSON shape.

type SignupRequest struct {
	Name     string `json:"name" example:"Ann"`
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"secret1"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"secret1"`
}

type PasswordResetRequest struct {
	Password    string `json:"password" example:"secret1"`
	NewPassword string `json:"newpassword" example:"secret2"`
}

type UpdateAccountDetailsRequest struct {
	Name        string `json:"name" example:"Ann Smith"`
	PhoneNumber NumericString `json:"phonenumber" swaggertype:"string" example:"5551234567"`
	Address     string `json:"address" example:"1 Main St"`
}

// NumericString takes either a JSON string or a JSON number and keeps the
// literal text, so 5551234567 and "5551234567" decode alike.
type NumericString string

func (s *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = NumericString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = NumericString(n.String())
	return nil
}
