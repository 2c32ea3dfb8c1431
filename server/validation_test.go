package server

import "testing"

func TestAudioFilePattern(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"mp3", "track.mp3", true},
		{"mp4", "track.mp4", true},
		{"uppercase", "TRACK.MP3", true},
		{"wav", "track.wav", false},
		{"flac", "track.flac", false},
		{"no extension", "track", false},
		{"mp3 infix", "track.mp3.exe", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := audioFilePattern.MatchString(tc.filename); got != tc.want {
				t.Fatalf("audioFilePattern(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}

func TestImageFilePattern(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"jpg", "cover.jpg", true},
		{"jpeg", "cover.jpeg", true},
		{"png", "cover.png", true},
		{"uppercase", "COVER.PNG", true},
		{"gif", "cover.gif", false},
		{"webp", "cover.webp", false},
		{"no extension", "cover", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := imageFilePattern.MatchString(tc.filename); got != tc.want {
				t.Fatalf("imageFilePattern(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}
