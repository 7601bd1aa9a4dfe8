package discord

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestHTTPSourceDownloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_, _ = w.Write([]byte("solid cube"))
	}))
	defer server.Close()

	source := newHTTPSource(server.URL)
	body, err := source.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "solid cube" {
		t.Errorf("data = %q", data)
	}
}

func TestHTTPSourceRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := newHTTPSource(server.URL).Open(context.Background()); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newHTTPSource(server.URL).Open(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestAttachmentsFromFiltersByExtension(t *testing.T) {
	message := &discordgo.Message{
		Attachments: []*discordgo.MessageAttachment{
			{Filename: "part.stl", URL: "https://cdn.example/part.stl"},
			{Filename: "photo.png", URL: "https://cdn.example/photo.png"},
			{Filename: "Bracket.STL", URL: "https://cdn.example/bracket.stl"},
			{Filename: "sliced.gcode", URL: "https://cdn.example/sliced.gcode"},
			nil,
		},
	}

	attachments := attachmentsFrom(message)
	if len(attachments) != 3 {
		t.Fatalf("attachments = %d, want 3", len(attachments))
	}
	want := []string{"part.stl", "Bracket.STL", "sliced.gcode"}
	for i, att := range attachments {
		if att.Filename != want[i] {
			t.Errorf("attachment[%d] = %q, want %q", i, att.Filename, want[i])
		}
		if att.Source == nil {
			t.Errorf("attachment[%d] has no source", i)
		}
	}
}

func TestAttachmentsFromNilMessage(t *testing.T) {
	if got := attachmentsFrom(nil); len(got) != 0 {
		t.Fatalf("attachments = %v, want none", got)
	}
}
