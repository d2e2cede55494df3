package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushelp/faqbot/internal/domain/faq"
	"github.com/campushelp/faqbot/internal/infra/config"
	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

type stubService struct {
	askResp      faq.Response
	askErr       error
	addPos       int
	addErr       error
	editErr      error
	deleteErr    error
	records      []faq.Record
	importResult faq.ImportResult
	importErr    error
	feedbackErr  error
	trending     []faq.TrendingQuestion
	trendingErr  error

	askedQuestion    string
	importedFilename string
	importedContent  []byte
}

func (s *stubService) Ask(_ context.Context, question string) (faq.Response, error) {
	s.askedQuestion = question
	return s.askResp, s.askErr
}

func (s *stubService) Add(_ context.Context, _, _, _ string) (int, error) {
	return s.addPos, s.addErr
}

func (s *stubService) Edit(_ context.Context, _ int, _, _, _ string) error {
	return s.editErr
}

func (s *stubService) Delete(_ context.Context, _ int) error {
	return s.deleteErr
}

func (s *stubService) List(_ context.Context) []faq.Record {
	return s.records
}

func (s *stubService) ImportDocument(_ context.Context, filename string, content []byte) (faq.ImportResult, error) {
	s.importedFilename = filename
	s.importedContent = content
	return s.importResult, s.importErr
}

func (s *stubService) Feedback(_ context.Context, _, _, _ string) error {
	return s.feedbackErr
}

func (s *stubService) Trending(_ context.Context) ([]faq.TrendingQuestion, error) {
	return s.trending, s.trendingErr
}

func (s *stubService) Restore(_ context.Context) error { return nil }

var _ faq.Service = (*stubService)(nil)

const testAdminPassword = "letmein"

func newTestServer(t *testing.T, svc faq.Service) *httptest.Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0"},
		Admin: config.AdminConfig{
			Enabled:      true,
			PasswordHash: string(hash),
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewRouter(cfg, NewHandler(svc, logger))

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func decodeErrorEnvelope(t *testing.T, body io.Reader) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error.Code, envelope.Error.Message
}

func TestAskEndpoint(t *testing.T) {
	svc := &stubService{askResp: faq.Response{
		Question:        "how do I log in",
		Answer:          "Use your student number.",
		MatchedQuestion: "How do I log in?",
		Score:           0.91,
		Matched:         true,
	}}
	ts := newTestServer(t, svc)

	resp, err := http.Post(ts.URL+"/api/v1/ask", "application/json", strings.NewReader(`{"question":"how do I log in"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got faq.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.True(t, got.Matched)
	require.Equal(t, "Use your student number.", got.Answer)
	require.Equal(t, "how do I log in", svc.askedQuestion)
}

func TestAskEndpointInvalidJSON(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	resp, err := http.Post(ts.URL+"/api/v1/ask", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "invalid_request", code)
}

func TestAskEndpointEmptyQuestion(t *testing.T) {
	svc := &stubService{askErr: apperrors.Wrap("invalid_input", "no question provided", nil)}
	ts := newTestServer(t, svc)

	resp, err := http.Post(ts.URL+"/api/v1/ask", "application/json", strings.NewReader(`{"question":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, message := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "invalid_request", code)
	require.Contains(t, message, "no question provided")
}

func TestAskEndpointProviderDown(t *testing.T) {
	svc := &stubService{askErr: apperrors.Wrap("provider_unavailable", "embedding batch failed", nil)}
	ts := newTestServer(t, svc)

	resp, err := http.Post(ts.URL+"/api/v1/ask", "application/json", strings.NewReader(`{"question":"anything"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "provider_unavailable", code)
}

func TestListFAQsEndpoint(t *testing.T) {
	svc := &stubService{records: []faq.Record{
		{Question: "first", Answer: "1"},
		{Question: "second", Answer: "2", Category: "general"},
	}}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/v1/faqs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		FAQs []struct {
			Position int    `json:"position"`
			Question string `json:"question"`
			Category string `json:"category"`
		} `json:"faqs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.FAQs, 2)
	require.Equal(t, 0, body.FAQs[0].Position)
	require.Equal(t, 1, body.FAQs[1].Position)
	require.Equal(t, "general", body.FAQs[1].Category)
}

func TestTrendingEndpoint(t *testing.T) {
	svc := &stubService{trending: []faq.TrendingQuestion{
		{Query: "How do I log in?", Count: 12},
	}}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/v1/faqs/trending")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Trending []faq.TrendingQuestion `json:"trending"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Trending, 1)
	require.Equal(t, int64(12), body.Trending[0].Count)
}

func TestFeedbackEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	resp, err := http.Post(ts.URL+"/api/v1/feedback", "application/json", strings.NewReader(`{"question":"q","answer":"a","feedback":"helpful"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestAdminAddFAQ(t *testing.T) {
	svc := &stubService{addPos: 3}
	ts := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Position int `json:"position"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 3, body.Position)
}

func TestAdminMissingPassword(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	resp, err := http.Post(ts.URL+"/api/v1/admin/faqs", "application/json", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "unauthorized", code)
}

func TestAdminWrongPassword(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminPasswordHeader, "guessing")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminDuplicateQuestionConflict(t *testing.T) {
	svc := &stubService{addErr: apperrors.Wrap("duplicate_question", "question already exists at position 0", nil)}
	ts := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "duplicate_question", code)
}

func TestAdminEditNotFound(t *testing.T) {
	svc := &stubService{editErr: apperrors.Wrap("index_out_of_range", "no faq at position 9", nil)}
	ts := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/admin/faqs/9", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp.Body)
	require.Equal(t, "faq_not_found", code)
}

func TestAdminEditBadPosition(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/admin/faqs/abc", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminDeleteFAQ(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/admin/faqs/0", nil)
	require.NoError(t, err)
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdminImportFAQs(t *testing.T) {
	svc := &stubService{importResult: faq.ImportResult{Added: 2}}
	ts := newTestServer(t, svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "faq.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Q: How do I log in?\nA: Use your student number.\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body faq.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.Added)
	require.Equal(t, "faq.txt", svc.importedFilename)
	require.Contains(t, string(svc.importedContent), "How do I log in?")
}

func TestAdminImportMissingFile(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs/import", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminImportUnsupportedDocument(t *testing.T) {
	svc := &stubService{importErr: apperrors.Wrap("unsupported_document", "document is not plain text: image.png", nil)}
	ts := newTestServer(t, svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "image.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/faqs/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(adminPasswordHeader, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestAdminRoutesAbsentWhenDisabled(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: ":0"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewRouter(cfg, NewHandler(&stubService{}, logger))
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/admin/faqs", "application/json", strings.NewReader(`{"question":"q","answer":"a"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
