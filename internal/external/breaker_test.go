// SPDX-License-Identifier: GPL-2.0-or-later

package external

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/owntone/go-libretune-server/internal/apperr"
)

type fakeTranscoder struct {
	err error
}

func (f *fakeTranscoder) StreamItem(_ context.Context, _ int64, _ string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader("pcm-bytes")), nil
}

func TestCircuitBreakerTranscoder_PassesThroughSuccess(t *testing.T) {
	cb := NewCircuitBreakerTranscoder(&fakeTranscoder{})
	stream, err := cb.StreamItem(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	data, _ := io.ReadAll(stream)
	if string(data) != "pcm-bytes" {
		t.Errorf("got %q", data)
	}
}

func TestCircuitBreakerTranscoder_WrapsFailureAsExternal(t *testing.T) {
	cb := NewCircuitBreakerTranscoder(&fakeTranscoder{err: errors.New("transcoder crashed")})
	_, err := cb.StreamItem(context.Background(), 1, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.External) {
		t.Errorf("expected External class, got %v", apperr.ClassOf(err))
	}
}

func TestCircuitBreakerTranscoder_OpensAfterRepeatedFailures(t *testing.T) {
	f := &fakeTranscoder{err: errors.New("down")}
	cb := NewCircuitBreakerTranscoder(f)

	for i := 0; i < 10; i++ {
		_, _ = cb.StreamItem(context.Background(), 1, "")
	}

	_, err := cb.StreamItem(context.Background(), 1, "")
	if err == nil {
		t.Fatal("expected error once breaker is tripped or still failing")
	}
}
