package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type recordingObserver struct {
	sizes []int
}

func (r *recordingObserver) ObservePayload(size int) {
	r.sizes = append(r.sizes, size)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func callEcho(t *testing.T, h *EchoHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Echo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeAny(t *testing.T, raw []byte) any {
	t.Helper()

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, raw)
	}
	return v
}

// TestEchoScenario проверяет пример из описания сервиса.
func TestEchoScenario(t *testing.T) {
	h := NewEchoHandler("unknown", nil)

	rec := callEcho(t, h, `{"a": 1, "b": [true, null]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	got := decodeAny(t, rec.Body.Bytes())
	want := decodeAny(t, []byte(`{"pod":"unknown","payload":{"a":1,"b":[true,null]}}`))
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestEchoRoundTrip проверяет, что любое JSON-значение возвращается без изменений.
func TestEchoRoundTrip(t *testing.T) {
	cases := map[string]string{
		"object":       `{"k":"v"}`,
		"empty object": `{}`,
		"array":        `[1,"two",3.5,false]`,
		"string":       `"hello"`,
		"number":       `42`,
		"big integer":  `12345678901234567890`,
		"boolean":      `true`,
		"null":         `null`,
		"nested":       `{"a":{"b":{"c":[{"d":[[],{}]}]}}}`,
		"whitespace":   " \n\t{\"x\" : [ 1 , 2 ]}\n",
	}

	h := NewEchoHandler("pod-1", nil)
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := callEcho(t, h, body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var resp EchoResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Pod != "pod-1" {
				t.Fatalf("expected pod-1, got %q", resp.Pod)
			}

			got := decodeAny(t, resp.Payload)
			want := decodeAny(t, []byte(body))
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

// TestEchoPreservesNumbers проверяет, что числа не проходят через float64.
func TestEchoPreservesNumbers(t *testing.T) {
	h := NewEchoHandler("pod-1", nil)

	rec := callEcho(t, h, `{"n":12345678901234567890,"f":1.10}`)
	if !strings.Contains(rec.Body.String(), `"payload":{"n":12345678901234567890,"f":1.10}`) {
		t.Fatalf("numbers changed: %s", rec.Body.String())
	}
}

// TestEchoMalformedInput проверяет ответ 400 на невалидный JSON.
func TestEchoMalformedInput(t *testing.T) {
	cases := []string{
		"not json",
		"",
		`{"a":`,
		`{"a":1} trailing`,
		`{'a':1}`,
		"\"\xff\xfe\"",
		"{\"k\":\"caf\xe9\"}",
	}

	h := NewEchoHandler("pod-1", nil)
	for _, body := range cases {
		rec := callEcho(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected status 400, got %d", body, rec.Code)
		}

		var er ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if er.Error != ErrMalformedInput.Error() {
			t.Fatalf("expected %q, got %q", ErrMalformedInput.Error(), er.Error)
		}
	}
}

// TestEchoIgnoresContentType проверяет, что тело разбирается независимо от Content-Type.
func TestEchoIgnoresContentType(t *testing.T) {
	e := echo.New()
	h := NewEchoHandler("pod-1", nil)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`[1,2]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()

	if err := h.Echo(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

// TestEchoObserver проверяет передачу размера тела наблюдателю.
func TestEchoObserver(t *testing.T) {
	observer := &recordingObserver{}
	h := NewEchoHandler("pod-1", observer)

	callEcho(t, h, `{"a":1}`)
	callEcho(t, h, "not json")

	if !reflect.DeepEqual(observer.sizes, []int{7}) {
		t.Fatalf("expected [7], got %v", observer.sizes)
	}
}

// TestEchoReadError проверяет, что ошибка чтения не выдается за MalformedInput.
func TestEchoReadError(t *testing.T) {
	e := echo.New()
	h := NewEchoHandler("pod-1", nil)

	req := httptest.NewRequest(http.MethodPost, "/echo", failingReader{})
	rec := httptest.NewRecorder()

	err := h.Echo(e.NewContext(req, rec))
	if err == nil {
		t.Fatal("expected read error")
	}
	if errors.Is(err, ErrMalformedInput) {
		t.Fatalf("read error must not be MalformedInput: %v", err)
	}
}
