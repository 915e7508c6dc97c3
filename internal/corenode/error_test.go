// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corenode

import (
	"errors"
	"testing"
)

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Socket, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find wrapped cause")
	}
	if !Is(err, Socket) {
		t.Fatalf("expected Is(err, Socket) to be true")
	}
	if Is(err, Read) {
		t.Fatalf("expected Is(err, Read) to be false")
	}
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	if Wrap(Socket, nil) != nil {
		t.Fatalf("expected Wrap(kind, nil) to return nil")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(Arguments, "config file has %d settings, want %d", 5, 23)
	want := "Arguments: config file has 5 settings, want 23"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
