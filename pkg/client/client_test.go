package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helmcode/patient-assistant/pkg/model"
	"github.com/helmcode/patient-assistant/pkg/parser"
	"github.com/helmcode/patient-assistant/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	form      map[string]string
	filenames []string
	fileData  []string
	requestID string
	accept    string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *received) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	got := &received{form: map[string]string{}}
	r := gin.New()
	r.POST(ProcessPath, func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		for k, v := range form.Value {
			got.form[k] = v[0]
		}
		for _, fh := range form.File[payload.FilesField] {
			got.filenames = append(got.filenames, fh.Filename)
			f, err := fh.Open()
			if err == nil {
				data, _ := io.ReadAll(f)
				f.Close()
				got.fileData = append(got.fileData, string(data))
			}
		}
		got.requestID = c.GetHeader(RequestIDHeader)
		got.accept = c.GetHeader("Accept")
		c.Data(status, "application/json", []byte(body))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, got
}

func build(t *testing.T, files ...model.AttachedFile) *payload.Payload {
	t.Helper()
	fields := model.DefaultFields()
	fields.Question = "Should I worry?"
	p, err := payload.Build(fields, files)
	require.NoError(t, err)
	return p
}

func TestProcessSuccess(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"insights": "Drink more water."}`)
	c := New(srv.URL + "/")

	insights, err := c.Process(context.Background(), build(t,
		model.AttachedFile{Name: "labs.pdf", Content: []byte("%PDF-1.4")},
		model.AttachedFile{Name: "notes.docx", Content: []byte("PK")},
	))
	require.NoError(t, err)
	assert.Equal(t, "Drink more water.", insights)

	assert.Equal(t, "45", got.form["age"])
	assert.Equal(t, "Male", got.form["sex"])
	assert.Equal(t, "175", got.form["height"])
	assert.Equal(t, "85", got.form["weight"])
	assert.Equal(t, "", got.form["allergies"])
	assert.Equal(t, "Should I worry?", got.form["question"])
	assert.Len(t, got.form, 9)
	assert.Equal(t, []string{"labs.pdf", "notes.docx"}, got.filenames)
	assert.Equal(t, []string{"%PDF-1.4", "PK"}, got.fileData)
	assert.NotEmpty(t, got.requestID)
	assert.Equal(t, "application/json", got.accept)
}

func TestProcessURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8000/process-patient-data/", New("http://127.0.0.1:8000").URL())
	assert.Equal(t, "http://host/api/process-patient-data/", New("http://host/api//").URL())
}

func TestProcessStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"body text", http.StatusUnprocessableEntity, "Invalid age value", "Invalid age value"},
		{"empty body", http.StatusInternalServerError, "", RequestFailedMessage},
		{"json detail kept verbatim", http.StatusBadRequest, `{"detail":"Unsupported file type: a.png"}`, `{"detail":"Unsupported file type: a.png"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)

			_, err := New(srv.URL).Process(context.Background(), build(t))

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestProcessParseErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `not json`)

	_, err := New(srv.URL).Process(context.Background(), build(t))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "invalid character")

	srv2, _ := newServer(t, http.StatusCreated, `{"result": "x"}`)
	_, err = New(srv2.URL).Process(context.Background(), build(t))
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, parser.ErrNoInsights)
}

func TestProcessServiceError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"error": "Gemini quota exceeded", "trace": "Traceback (most recent call last): ..."}`)

	_, err := New(srv.URL).Process(context.Background(), build(t))

	var svcErr *parser.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Gemini quota exceeded", err.Error())
	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr))
	assert.Equal(t, "analysis service reported an error", Describe(err))
}

func TestProcessTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Process(context.Background(), build(t))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotEmpty(t, err.Error())
}

func TestProcessTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(ProcessPath, func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(5 * time.Second):
		}
		c.String(http.StatusOK, `{"insights":"late"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Process(ctx, build(t))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewTimeoutLeavesCallerClient(t *testing.T) {
	for name, opts := range map[string]func(*http.Client) []Option{
		"timeout last": func(hc *http.Client) []Option {
			return []Option{WithHTTPClient(hc), WithTimeout(time.Second)}
		},
		"timeout first": func(hc *http.Client) []Option {
			return []Option{WithTimeout(time.Second), WithHTTPClient(hc)}
		},
	} {
		t.Run(name, func(t *testing.T) {
			hc := &http.Client{Timeout: 7 * time.Second}

			c := New("http://127.0.0.1:8000", opts(hc)...)

			assert.Equal(t, 7*time.Second, hc.Timeout)
			assert.Equal(t, time.Second, c.client.Timeout)
			assert.NotSame(t, hc, c.client)
		})
	}

	hc := &http.Client{Timeout: 7 * time.Second}
	c := New("http://127.0.0.1:8000", WithHTTPClient(hc), WithTimeout(0))
	assert.Same(t, hc, c.client)

	assert.Zero(t, New("http://127.0.0.1:8000").client.Timeout)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "analysis service error (status 502)", Describe(&StatusError{StatusCode: 502}))
	assert.Equal(t, "malformed analysis response", Describe(&ParseError{}))
	assert.Equal(t, "analysis service unreachable", Describe(&TransportError{}))
	assert.Equal(t, "submission failed", Describe(errors.New("x")))
}
