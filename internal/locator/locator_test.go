package locator

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	const bos = "https://www.hockey-reference.com/boxscores/202304150BOS.html"
	const njd = "https://www.hockey-reference.com/boxscores/202304150NJD.html"

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{
			name:  "one per line",
			input: bos + "\n" + njd,
			want:  []string{bos, njd},
		},
		{
			name:  "duplicates collapse with and without surrounding text",
			input: bos + "\n   " + bos + "   \nGame 3: " + bos + " (home)",
			want:  []string{bos},
		},
		{
			name:  "surrounding prose and trailing punctuation",
			input: "Check out " + njd + ", great game.",
			want:  []string{njd},
		},
		{
			name:  "no www prefix",
			input: "http://hockey-reference.com/boxscores/202301010PIT.html",
			want:  []string{"http://hockey-reference.com/boxscores/202301010PIT.html"},
		},
		{
			name:  "other http line kept verbatim",
			input: "  https://example.com/game/1  \nnot a url\n" + bos,
			want:  []string{"https://example.com/game/1", bos},
		},
		{
			name:  "windows line endings",
			input: bos + "\r\n" + njd + "\r\n",
			want:  []string{bos, njd},
		},
		{
			name:    "nothing usable",
			input:   "hello\nworld\n  \nftp://hockey-reference.com/x",
			wantErr: ErrNoLocators,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrNoLocators,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_PreservesOrder(t *testing.T) {
	lines := []string{
		"https://www.hockey-reference.com/boxscores/202310100VEG.html",
		"https://www.hockey-reference.com/boxscores/202310100PIT.html",
		"https://www.hockey-reference.com/boxscores/202310100LAK.html",
	}
	got, err := Extract(strings.Join([]string{lines[0], lines[1], lines[0], lines[2]}, "\n"))
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, lines) {
		t.Errorf("Extract() = %q, want %q", got, lines)
	}
}
