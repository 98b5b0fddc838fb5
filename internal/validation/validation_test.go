package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Parent@Example.COM", "parent@example.com"},
		{"  spaced@example.com  ", "spaced@example.com"},
		{"already@lower.net", "already@lower.net"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain digits",
			input: "1234",
			want:  "1234",
		},
		{
			name:  "digits with separators",
			input: "12-34",
			want:  "1234",
		},
		{
			name:  "digits with spaces",
			input: " 1 2 3 4 ",
			want:  "1234",
		},
		{
			name:  "letters stripped",
			input: "a1b2c3d4",
			want:  "1234",
		},
		{
			name:  "no digits at all",
			input: "abcd",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePin(tt.input); got != tt.want {
				t.Errorf("NormalizePin(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePin(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
	}{
		{
			name:    "four digits",
			pin:     "1234",
			wantErr: false,
		},
		{
			name:    "six digits",
			pin:     "123456",
			wantErr: false,
		},
		{
			name:    "three digits too short",
			pin:     "123",
			wantErr: true,
		},
		{
			name:    "seven digits too long",
			pin:     "1234567",
			wantErr: true,
		},
		{
			name:    "empty",
			pin:     "",
			wantErr: true,
		},
		{
			name:    "letters rejected",
			pin:     "12ab",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePin(tt.pin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePin(%q) error = %v, wantErr %v", tt.pin, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
