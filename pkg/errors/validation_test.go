package errors

import "testing"

func TestValidateGraphName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "sample1", false},
		{"valid with dots", "HG002.breakpoints", false},
		{"valid with dashes", "tumor-normal_01", false},
		{"valid double dot inside", "x..y.json", false},
		{"valid trailing dots", "sample..", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"slash", "dir/graph", true},
		{"backslash", "dir\\graph", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"traversal with separator", "../graph", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateGraphName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "graphs/sample.json", false},
		{"valid absolute", "/data/graphs/sample.json", false},
		{"valid parent", "../graphs", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidDocument,
		ErrCodeInvalidField,
		ErrCodeInvalidName,
		ErrCodeInvalidConfig,
		ErrCodeInvalidPath,
		ErrCodeMissingField,
		ErrCodeDuplicateNode,
		ErrCodeUnknownNode,
		ErrCodeFileNotFound,
		ErrCodeGraphTooLarge,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
