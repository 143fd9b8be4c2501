package agent

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiRoleMapping(t *testing.T) {
	cases := []struct {
		turnRole string
		want     genai.Role
	}{
		{"user", genai.RoleUser},
		{"assistant", genai.RoleModel},
		{"system", genai.RoleUser},
	}

	for _, tc := range cases {
		if got := geminiRole(tc.turnRole); got != tc.want {
			t.Errorf("geminiRole(%q) = %q, want %q", tc.turnRole, got, tc.want)
		}
	}
}
