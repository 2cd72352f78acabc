package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func TestGenerationClientSendsMultipartForm(t *testing.T) {
	var gotPath string
	var gotFields map[string]string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		gotFields = map[string]string{}
		for name := range r.MultipartForm.Value {
			gotFields[name] = r.FormValue(name)
		}
		file, _, err := r.FormFile("file")
		if err == nil {
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotFile = buf[:n]
			file.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/out.mp4"}`))
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, zerolog.Nop())
	url, err := client.Generate(context.Background(), &GenerationRequest{
		Prompt:     "a storm over the sea",
		Duration:   "5",
		Resolution: "720p",
		Kind:       model.GenerationVideo,
		SubKind:    model.SubKindImageToVideo,
		UserID:     "user-1",
		FileName:   "ref.png",
		FileData:   []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if url != "https://cdn.example.com/out.mp4" {
		t.Fatalf("url = %q", url)
	}
	if gotPath != "/api/generate" {
		t.Fatalf("path = %q", gotPath)
	}

	want := map[string]string{
		"prompt":     "a storm over the sea",
		"duration":   "5",
		"resolution": "720p",
		"type":       "video",
		"subType":    "image-to-video",
		"user_id":    "user-1",
	}
	for name, value := range want {
		if gotFields[name] != value {
			t.Errorf("field %s = %q, want %q", name, gotFields[name], value)
		}
	}
	if string(gotFile) != "png-bytes" {
		t.Fatalf("file part = %q", gotFile)
	}
}

func TestGenerationClientErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"GPU pool exhausted"}`))
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, zerolog.Nop())
	_, err := client.Generate(context.Background(), &GenerationRequest{
		Prompt: "dunes at dawn",
		Kind:   model.GenerationImage,
		UserID: "user-1",
	})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "GPU pool exhausted" {
		t.Fatalf("detail = %q", upstream.Message)
	}
}

func TestGenerationClientErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>panic</html>"))
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, zerolog.Nop())
	_, err := client.Generate(context.Background(), &GenerationRequest{
		Prompt: "dunes at dawn",
		Kind:   model.GenerationImage,
		UserID: "user-1",
	})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "Generation failed on backend" {
		t.Fatalf("fallback detail = %q", upstream.Message)
	}
}

func TestGenerationClientOmitsFilePartWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err == nil {
			t.Error("file part should be absent")
		}
		w.Write([]byte(`{"url":"https://cdn.example.com/out.png"}`))
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, zerolog.Nop())
	if _, err := client.Generate(context.Background(), &GenerationRequest{
		Prompt: "dunes at dawn",
		Kind:   model.GenerationImage,
		UserID: "user-1",
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}
