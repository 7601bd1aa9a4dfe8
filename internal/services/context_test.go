package services

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "render")
	ctx = WithAttachment(ctx, "part.stl")

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "render" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if name, ok := AttachmentFromContext(ctx); !ok || name != "part.stl" {
		t.Fatalf("attachment = %q, %v", name, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := WithStage(context.Background(), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
	if _, ok := RunIDFromContext(context.Background()); ok {
		t.Fatal("missing run id should not be found")
	}
}
