package router

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Action
	}{
		{"001.jpg", Transcode},
		{"001.jpeg", Transcode},
		{"chapter 1/002.png", Transcode},
		{"001.JPG", PassThrough},
		{"cover.Png", PassThrough},
		{"ComicInfo.xml", PassThrough},
		{"notes.txt", PassThrough},
		{"page.gif", PassThrough},
		{"page.webp", PassThrough},
		{"README", PassThrough},
		{"__MACOSX/._001.jpg", Skip},
		{"__MACOSX/notes.txt", Skip},
		{"__macosx/001.jpg", Transcode},
		{"pages/__MACOSX/001.jpg", Transcode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"001.jpg":                "001.webp",
		"001.jpeg":               "001.webp",
		"chapter 1/002.png":      "chapter 1/002.webp",
		"vol.2/page.10.png":      "vol.2/page.10.webp",
		"deep/nested/dir/x.jpeg": "deep/nested/dir/x.webp",
	}
	for in, want := range tests {
		if got := OutputName(in); got != want {
			t.Errorf("OutputName(%q) = %q, want %q", in, got, want)
		}
	}
}
