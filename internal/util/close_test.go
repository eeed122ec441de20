package util

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
)

type failingCloser struct{ calls int }

func (f *failingCloser) Close() error {
	f.calls++
	return errors.New("boom")
}

func TestCloseWithErrLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)
	c := &failingCloser{}
	CloseWithErr(c, "archive")
	if c.calls != 1 {
		t.Fatalf("expected one close call, got %d", c.calls)
	}
	if !strings.Contains(buf.String(), "close archive: boom") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestCloseWithErrSkipsNil(t *testing.T) {
	var c *failingCloser
	CloseWithErr(c, "nil")
	CloseWithErr(nil, "nil")
}
