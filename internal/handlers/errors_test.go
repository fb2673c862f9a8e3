package handlers

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zerolog.Nop(), 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("expected JSON error body, got %q", body)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, logger, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
	if !strings.Contains(logOutput, `"level":"error"`) {
		t.Fatalf("expected error level, got %q", logOutput)
	}
}

func TestRespondWithErrorLogsClientErrorsAsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	respondWithError(httptest.NewRecorder(), logger, 400, "Bad request", "rejected input", errors.New("bad date"))

	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn level, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "rejected input") {
		t.Fatalf("expected log message, got %q", buf.String())
	}
}
