package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := errors.New("connection reset")
	err := Wrap(ErrAcquisition, "acquire", "download", "fetching attachment bytes failed", underlying)

	if !errors.Is(err, ErrAcquisition) {
		t.Fatalf("expected error to match ErrAcquisition: %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected error to wrap underlying cause: %v", err)
	}
	want := "acquisition error: acquire: download: fetching attachment bytes failed: connection reset"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrRender, "render", "frame 3", "renderer exited with status 1", nil)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender match: %v", err)
	}
	if errors.Is(err, ErrEncode) {
		t.Fatalf("did not expect ErrEncode match: %v", err)
	}
}

func TestWrapNilMarkerFallsBack(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected fallback to ErrExternalTool: %v", err)
	}
	if err.Error() != "external tool error: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestDetailStripsMarker(t *testing.T) {
	err := Wrap(ErrEncode, "encode", "gifski", "encoder exited with status 2", nil)
	got := Detail(err)
	want := "encode: gifski: encoder exited with status 2"
	if got != want {
		t.Fatalf("Detail = %q, want %q", got, want)
	}
	if Detail(nil) != "" {
		t.Fatal("Detail(nil) should be empty")
	}
	plain := errors.New("plain failure")
	if Detail(plain) != "plain failure" {
		t.Fatalf("Detail(plain) = %q", Detail(plain))
	}
}
