package errx_test

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abraxas-365/fileutil/pkg/errx"
)

var (
	testErrors  = errx.NewRegistry("TEST")
	errMissing  = testErrors.Register("MISSING", errx.TypeNotFound, "Thing not found")
	errBadInput = testErrors.Register("BAD_INPUT", errx.TypeValidation, "Bad input")
)

func TestRegistry_New(t *testing.T) {
	err := testErrors.New(errMissing).WithDetail("path", "/a/b.txt")

	if err.Code != "TEST_MISSING" {
		t.Fatalf("unexpected code %q", err.Code)
	}
	if err.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["path"] != "/a/b.txt" {
		t.Fatalf("detail not set: %+v", err.Details)
	}

	if _, ok := testErrors.Get("MISSING"); !ok {
		t.Fatal("registered code not found")
	}
	if codes := testErrors.Codes(); len(codes) != 2 || codes[0].Code != "TEST_BAD_INPUT" {
		t.Fatalf("unexpected codes: %+v", codes)
	}
}

func TestIsCode(t *testing.T) {
	base := testErrors.New(errMissing)
	wrapped := fmt.Errorf("reading: %w", errx.Wrap(base, "read failed", errx.TypeExternal))

	if !errx.IsCode(wrapped, errMissing) {
		t.Fatal("expected wrapped error to carry TEST_MISSING")
	}
	if errx.IsCode(wrapped, errBadInput) {
		t.Fatal("did not expect TEST_BAD_INPUT")
	}
	if errx.IsCode(errors.New("plain"), errMissing) {
		t.Fatal("plain error has no code")
	}
	if errx.IsCode(nil, errMissing) {
		t.Fatal("nil error has no code")
	}
}

func TestWrap(t *testing.T) {
	if errx.Wrap(nil, "x", errx.TypeInternal) != nil {
		t.Fatal("wrapping nil must return nil")
	}

	cause := errors.New("disk full")
	err := errx.Wrapf(cause, errx.TypeExternal, "write %s", "a.txt")
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if err.HTTPStatus != 502 || !errx.IsType(err, errx.TypeExternal) {
		t.Fatalf("unexpected classification: %+v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("message misses cause: %s", err.Error())
	}
}

func TestWriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	errx.FromError(testErrors.New(errBadInput)).WriteHTTP(rec)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"TEST_BAD_INPUT"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if got := errx.FromError(errors.New("boom")); got.Type != errx.TypeInternal {
		t.Fatalf("expected internal, got %s", got.Type)
	}
}
