package upstream

import "testing"

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"message object", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"title object", `{"title":"One or more validation errors occurred."}`, "One or more validation errors occurred."},
		{
			"field errors joined and sorted",
			`{"errors":{"Password":["too short"],"Email":["required","invalid format"]}}`,
			"Email: required; Email: invalid format; Password: too short",
		},
		{"json string", `"account locked"`, "account locked"},
		{"raw text", `service unavailable`, "service unavailable"},
		{"message wins over title", `{"message":"m","title":"t"}`, "m"},
		{"empty body", ``, "authentication failed, please try again"},
		{"unknown object", `{"code":42}`, "authentication failed, please try again"},
		{"unknown array", `[1,2]`, "authentication failed, please try again"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeError([]byte(tc.raw)); got != tc.want {
				t.Fatalf("NormalizeError(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestError_ErrorReturnsMessage(t *testing.T) {
	err := &Error{Status: 401, Message: "Invalid credentials"}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
