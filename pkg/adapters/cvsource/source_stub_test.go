//go:build !opencv

package cvsource

import (
	"errors"
	"testing"
)

func TestOpen_Unavailable(t *testing.T) {
	if Compiled {
		t.Fatal("stub build should report Compiled=false")
	}
	src, err := Open("clip.mp4")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if src != nil {
		t.Error("expected nil source")
	}
}
