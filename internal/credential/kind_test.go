package credential

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   AuthKind
	}{
		{
			name:   "api key",
			secret: "sk-ant-api03-abc123",
			want:   AuthKindAPIKey,
		},
		{
			name:   "json bundle",
			secret: `{"claudeAiOauth":{"accessToken":"t"}}`,
			want:   AuthKindOAuth,
		},
		{
			name:   "json bundle with leading whitespace",
			secret: "  {\"a\":1}",
			want:   AuthKindOAuth,
		},
		{
			name:   "dot-delimited token",
			secret: "aaa.bbb.ccc",
			want:   AuthKindOAuth,
		},
		{
			name:   "empty",
			secret: "",
			want:   AuthKindUnknown,
		},
		{
			name:   "unrecognized",
			secret: "hello world",
			want:   AuthKindUnknown,
		},
		{
			name:   "too many dots",
			secret: "a.b.c.d",
			want:   AuthKindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.secret); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}

func TestWellKnownKind(t *testing.T) {
	tests := []struct {
		name string
		want AuthKind
	}{
		{"max", AuthKindOAuth},
		{"Pro", AuthKindOAuth},
		{"api", AuthKindAPIKey},
		{"console", AuthKindAPIKey},
		{"work", AuthKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WellKnownKind(tt.name); got != tt.want {
				t.Errorf("WellKnownKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseAuthKind(t *testing.T) {
	tests := []struct {
		input string
		want  AuthKind
	}{
		{"api_key", AuthKindAPIKey},
		{"api-key", AuthKindAPIKey},
		{"oauth", AuthKindOAuth},
		{"subscription", AuthKindOAuth},
		{"", AuthKindUnknown},
		{"bogus", AuthKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseAuthKind(tt.input); got != tt.want {
				t.Errorf("ParseAuthKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
