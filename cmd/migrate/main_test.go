package main

import (
	"testing"
	"time"
)

func TestSelectDirection(t *testing.T) {
	for _, dir := range []string{"up", "down"} {
		fn, err := selectDirection(dir)
		if err != nil {
			t.Errorf("selectDirection(%q): %v", dir, err)
		}
		if fn == nil {
			t.Errorf("selectDirection(%q) returned nil func", dir)
		}
	}

	if _, err := selectDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestRun_RequiresDatabaseURL(t *testing.T) {
	if err := run("", "up", time.Second); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestRun_RejectsUnknownDirectionBeforeConnecting(t *testing.T) {
	err := run("postgres://nobody@127.0.0.1:1/none", "sideways", time.Second)
	if err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
