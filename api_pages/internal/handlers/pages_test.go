package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
	"github.com/theo45530/commerceai-pro/pkg/models"
)

type providerStub struct {
	reply   string
	err     error
	prompts []string
}

func (s *providerStub) Complete(_ context.Context, messages []llm.Message) (string, error) {
	for _, msg := range messages {
		if msg.Role == "user" {
			s.prompts = append(s.prompts, msg.Content)
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type storeStub struct {
	pages     map[string]models.GeneratedPage
	inserted  []models.GeneratedPage
	deleteErr error
}

func (s *storeStub) InsertPage(_ context.Context, page models.GeneratedPage) error {
	s.inserted = append(s.inserted, page)
	s.pages[page.ID] = page
	return nil
}

func (s *storeStub) GetPage(_ context.Context, id string) (models.GeneratedPage, error) {
	page, ok := s.pages[id]
	if !ok {
		return models.GeneratedPage{}, errors.New("not found")
	}
	return page, nil
}

func (s *storeStub) ListPages(_ context.Context, pageType string, _ int64) ([]models.GeneratedPage, error) {
	pages := []models.GeneratedPage{}
	for _, page := range s.pages {
		if pageType == "" || page.PageType == pageType {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

func (s *storeStub) DeletePage(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.pages[id]; !ok {
		return errors.New("not found")
	}
	delete(s.pages, id)
	return nil
}

type pagesHarness struct {
	router   *gin.Engine
	store    *storeStub
	provider *providerStub
}

func setupPageHandlers(reply string, llmErr error) *pagesHarness {
	gin.SetMode(gin.TestMode)
	st := &storeStub{pages: map[string]models.GeneratedPage{}}
	p := &providerStub{reply: reply, err: llmErr}
	Init(st, p, nil, logging.NewLogger())

	router := gin.New()
	router.POST("/generate/page", GeneratePage)
	router.GET("/pages", ListPages)
	router.GET("/pages/:id", GetPage)
	router.GET("/pages/:id/preview", PreviewPage)
	router.DELETE("/pages/:id", DeletePage)
	router.GET("/templates", ListTemplates)
	router.GET("/templates/:id", GetTemplate)
	return &pagesHarness{router: router, store: st, provider: p}
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const pageReply = "Here is your page.\n```html\n<div class=\"hero\">Welcome</div>\n```\n```css\n.hero { color: navy; }\n```\n```javascript\nconsole.log(\"hi\");\n```"

func TestGeneratePageDecomposesBlocks(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)

	resp := postJSON(t, harness.router, "/generate/page", map[string]interface{}{
		"business_name": "Trailhead Outfitters",
		"page_type":     "landing",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.store.inserted) != 1 {
		t.Fatalf("expected 1 stored page, got %d", len(harness.store.inserted))
	}
	page := harness.store.inserted[0]
	if page.Content.CSS != ".hero { color: navy; }" {
		t.Fatalf("unexpected css: %q", page.Content.CSS)
	}
	if page.Content.JS != `console.log("hi");` {
		t.Fatalf("unexpected js: %q", page.Content.JS)
	}
	if !strings.Contains(page.Content.HTML, "<!DOCTYPE html>") {
		t.Fatal("expected skeleton wrapping")
	}
	if !strings.Contains(page.Content.HTML, "<style>") || !strings.Contains(page.Content.HTML, "<script>") {
		t.Fatal("expected css and js embedded into the html")
	}
}

func TestGeneratePageTemplateFeedsPrompt(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)

	resp := postJSON(t, harness.router, "/generate/page", map[string]interface{}{
		"business_name": "Trailhead Outfitters",
		"page_type":     "landing",
		"template_id":   "default-landing",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(harness.provider.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(harness.provider.prompts))
	}
	if !strings.Contains(harness.provider.prompts[0], "cta-button") {
		t.Fatal("expected template markup in the prompt")
	}
	if got := harness.store.inserted[0].TemplateID; got != "default-landing" {
		t.Fatalf("unexpected stored template id: %q", got)
	}
}

func TestGeneratePageProductRequiresName(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)

	resp := postJSON(t, harness.router, "/generate/page", map[string]interface{}{
		"business_name": "Trailhead Outfitters",
		"page_type":     "product",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "ProductName") {
		t.Fatalf("expected the missing field named, got %s", resp.Body.String())
	}
	if len(harness.provider.prompts) != 0 {
		t.Fatal("expected no completion call")
	}
}

func TestGeneratePageCompletionFailure(t *testing.T) {
	harness := setupPageHandlers("", errors.New("provider down"))

	resp := postJSON(t, harness.router, "/generate/page", map[string]interface{}{
		"business_name": "Trailhead Outfitters",
		"page_type":     "landing",
	})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if len(harness.store.inserted) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestPreviewPageServesHTML(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)
	harness.store.pages["p1"] = models.GeneratedPage{
		ID:      "p1",
		Content: models.PageContent{HTML: "<!DOCTYPE html><html><body>hello</body></html>"},
	}

	req := httptest.NewRequest(http.MethodGet, "/pages/p1/preview", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if !strings.Contains(resp.Body.String(), "hello") {
		t.Fatal("expected page body served")
	}
}

func TestDeletePage(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)
	harness.store.pages["p1"] = models.GeneratedPage{ID: "p1"}

	req := httptest.NewRequest(http.MethodDelete, "/pages/p1", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, ok := harness.store.pages["p1"]; ok {
		t.Fatal("expected page removed")
	}

	req = httptest.NewRequest(http.MethodDelete, "/pages/p1", nil)
	resp = httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}

func TestGetTemplate(t *testing.T) {
	harness := setupPageHandlers(pageReply, nil)

	req := httptest.NewRequest(http.MethodGet, "/templates/default-product", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var tpl PageTemplate
	if err := json.Unmarshal(resp.Body.Bytes(), &tpl); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tpl.Type != "product" {
		t.Fatalf("unexpected template type: %s", tpl.Type)
	}

	req = httptest.NewRequest(http.MethodGet, "/templates/nope", nil)
	resp = httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
