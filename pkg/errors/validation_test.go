package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "ibmqx2", false},
		{"valid underscore", "ibmq_tokyo", false},
		{"valid dash", "bmt-random", false},
		{"valid line generator", "line:5", false},
		{"valid grid generator", "grid:3x4", false},
		{"uppercase folded", "IBMQX2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"space", "ibm qx2", true},
		{"newline", "ibmqx2\n", true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"bad generator", "grid:3xx4", true},
		{"leading dash", "-bmt", true},
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

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit("max_children", 0); err != nil {
		t.Errorf("ValidateLimit(0) error = %v, want nil", err)
	}
	if err := ValidateLimit("max_children", 8); err != nil {
		t.Errorf("ValidateLimit(8) error = %v, want nil", err)
	}
	err := ValidateLimit("max_children", -1)
	if !Is(err, ErrCodeInvalidOption) {
		t.Errorf("ValidateLimit(-1) error = %v, want %v", err, ErrCodeInvalidOption)
	}
}

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		v       int
		wantErr bool
	}{
		{0, false},
		{7, false},
		{-1, true},
		{1 << 21, true},
	}

	for _, tt := range tests {
		err := ValidateWeight("swap", tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWeight(%d) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateQubitCount(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{20, false},
		{MaxQubits, false},
		{MaxQubits + 1, true},
		{-3, true},
	}

	for _, tt := range tests {
		err := ValidateQubitCount("qubits", tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateQubitCount(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}
