package transferenc

import (
	"strings"
	"testing"
)

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain",
			input: "aGVsbG8gd29ybGQ=",
			want:  "hello world",
		},
		{
			name:  "line folds",
			input: "aGVsbG8g\r\nd29y\nbGQ=",
			want:  "hello world",
		},
		{
			name:  "interior spaces",
			input: "aGVs bG8g\td29ybGQ=",
			want:  "hello world",
		},
		{
			name:    "character outside alphabet",
			input:   "aGVsbG8*d29ybGQ=",
			wantErr: true,
		},
		{
			name:    "missing padding",
			input:   "aGVsbG8gd29ybGQ",
			wantErr: true,
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeBase64(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBase64(%q) error: %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeBase64(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeQuotedPrintable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "hex escapes",
			input: "caf=C3=A9",
			want:  "café",
		},
		{
			name:  "soft line break lf",
			input: "hello =\nworld",
			want:  "hello world",
		},
		{
			name:  "soft line break crlf",
			input: "hello =\r\nworld",
			want:  "hello world",
		},
		{
			name:  "plain passthrough",
			input: "<html><body>Hi</body></html>",
			want:  "<html><body>Hi</body></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeQuotedPrintable([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeQuotedPrintable(%q) error: %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeQuotedPrintable(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeDispatch(t *testing.T) {
	tests := []struct {
		encoding string
		input    string
		want     string
	}{
		{"base64", "aGk=", "hi"},
		{"BASE64", "aGk=", "hi"},
		{"quoted-printable", "=41", "A"},
		{"7bit", "as-is", "as-is"},
		{"8bit", "as-is", "as-is"},
		{"binary", "as-is", "as-is"},
		{"unknown-encoding", "as-is", "as-is"},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			got, err := Decode(tt.encoding, []byte(tt.input))
			if err != nil {
				t.Fatalf("Decode(%q, %q) error: %v", tt.encoding, tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("Decode(%q, %q) = %q, want %q", tt.encoding, tt.input, got, tt.want)
			}
		})
	}
}

func TestDataURI(t *testing.T) {
	t.Run("binary is base64", func(t *testing.T) {
		got := DataURI("image/png", false, []byte{0x89, 0x50, 0x4e, 0x47})
		want := "data:image/png;base64,iVBORw=="
		if got != want {
			t.Errorf("DataURI = %q, want %q", got, want)
		}
	})

	t.Run("textual is percent-encoded utf8", func(t *testing.T) {
		got := DataURI("text/css", true, []byte("a { color: red }"))
		if !strings.HasPrefix(got, "data:text/css;utf8,") {
			t.Fatalf("DataURI = %q, want utf8 form", got)
		}
		if strings.ContainsAny(got, " {}") {
			t.Errorf("DataURI = %q, payload not percent-encoded", got)
		}
	})
}
