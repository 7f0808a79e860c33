// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"errors"
	"testing"
)

func TestParsePose(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Pose
		wantErr bool
	}{
		{
			name:  "padded controller report",
			input: "+012.300, .500,-001.000,+000.000,+090.000",
			want:  Pose{X: 12.3, Y: 0.5, Z: -1.0, P: 0.0, R: 90.0},
		},
		{
			name:  "plain fields",
			input: "10.0,0.0,0.0,5.0,5.0",
			want:  Pose{X: 10, Y: 0, Z: 0, P: 5, R: 5},
		},
		{
			name:  "bare negative decimal point",
			input: "-.500,0.0,0.0,0.0,0.0",
			want:  Pose{X: -0.5},
		},
		{
			name:    "too few fields",
			input:   "1.0,2.0,3.0,4.0",
			wantErr: true,
		},
		{
			name:    "non-numeric field",
			input:   "1.0,2.0,abc,4.0,5.0",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePose(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("ParsePose(%q) = %v, want ErrMalformedResponse", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePose(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePose(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPoseAdd(t *testing.T) {
	base := Pose{X: 10, Y: 0, Z: 0, P: 5, R: 5}
	got := base.Add(Pose{X: 1, Y: 2, Z: 3})
	want := Pose{X: 11, Y: 2, Z: 3, P: 5, R: 5}
	if got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
	// The receiver is untouched.
	if base.X != 10 {
		t.Errorf("receiver mutated: %+v", base)
	}
}

func TestParseErrorCode(t *testing.T) {
	tests := []struct {
		input string
		want  ErrorCode
	}{
		{"0", CodeOk},
		{"1", CodeHardwareError},
		{"2", CodeCommandOrPositionError},
		{"7", CodeUnknown},
		{"-3", CodeUnknown},
		{" 1 ", CodeHardwareError},
		{"garbage", CodeUnknown},
		{"", CodeUnknown},
	}

	for _, tt := range tests {
		if got := ParseErrorCode(tt.input); got != tt.want {
			t.Errorf("ParseErrorCode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
