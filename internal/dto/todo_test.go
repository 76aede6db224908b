package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "date only becomes start of day UTC",
			in:   `"2025-05-10"`,
			want: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339",
			in:   `"2025-05-10T14:30:00Z"`,
			want: time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name: "naive datetime",
			in:   `"2025-05-10T14:30:00"`,
			want: time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d DateTime
			if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if d.Ptr() == nil || !d.Ptr().Equal(tc.want) {
				t.Fatalf("got %v, want %v", d.Ptr(), tc.want)
			}
		})
	}
}

func TestDateTimeUnmarshalEmpty(t *testing.T) {
	for _, in := range []string{`null`, `""`, `"   "`} {
		var d DateTime
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if d.Ptr() != nil {
			t.Fatalf("%s must parse to nil, got %v", in, d.Ptr())
		}
	}
}

func TestDateTimeUnmarshalInvalid(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"10/05/2025"`), &d); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}
