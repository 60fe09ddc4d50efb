package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() { getRuntime, startCmd = origRuntime, origStart })

	var started []string
	startCmd = func(cmd *exec.Cmd) error {
		started = cmd.Args
		return nil
	}

	tc := []struct {
		name     string
		goos     string
		link     string
		wantArgs []string
		wantErr  bool
	}{
		{name: "linux", goos: "linux", link: "https://open.spotify.com/playlist/1", wantArgs: []string{"xdg-open", "https://open.spotify.com/playlist/1"}},
		{name: "darwin", goos: "darwin", link: "https://open.spotify.com/playlist/1", wantArgs: []string{"open", "https://open.spotify.com/playlist/1"}},
		{name: "windows", goos: "windows", link: "http://example.com", wantArgs: []string{"cmd", "/c", "start", "http://example.com"}},
		{name: "unsupported platform", goos: "plan9", link: "https://example.com", wantErr: true},
		{name: "not a url", goos: "linux", link: "Jazz Classics", wantErr: true},
		{name: "file scheme", goos: "linux", link: "file:///etc/passwd", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			started = nil
			getRuntime = func() string { return tt.goos }

			err := OpenBrowser(tt.link)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenBrowser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(started) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", started, tt.wantArgs)
			}
			for i := range started {
				if started[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, started[i], tt.wantArgs[i])
				}
			}
		})
	}

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCmd = func(*exec.Cmd) error { return errors.New("boom") }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected start error to propagate")
		}
	})
}
