package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theo45530/commerceai-pro/pkg/crypto"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
)

func seedPublishedRecord(harness *contentHarness) models.ContentRecord {
	rec := models.ContentRecord{
		ID:             "c1",
		ContentType:    "social_media_facebook",
		Content:        "New boots are here",
		Hashtags:       []string{"#boots"},
		Platform:       "facebook",
		PlatformPostID: "post-9",
		Published:      true,
	}
	harness.store.contents[rec.ID] = rec
	return rec
}

func seedCredentials(t *testing.T, harness *contentHarness, platform string) {
	t.Helper()
	sealed, err := harness.encryptor.Encrypt("secret-token")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	harness.store.creds[platform] = models.PlatformCredentials{
		ID:          "cred-1",
		Platform:    platform,
		Credentials: map[string]string{"access_token": sealed},
	}
}

func TestPublishContentHappyPath(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{
		ID:          "c1",
		ContentType: "social_media_facebook",
		Content:     "New boots are here",
		Hashtags:    []string{"#boots", "#winter"},
	}
	seedCredentials(t, harness, "facebook")

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/publish", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		PlatformPostID  string `json:"platform_post_id"`
		PlatformPostURL string `json:"platform_post_url"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.PlatformPostID != "post-1" || body.PlatformPostURL != "https://platform.example/post-1" {
		t.Fatalf("unexpected publish result: %+v", body)
	}

	if len(harness.gw.published) != 1 {
		t.Fatalf("expected 1 gateway publish, got %d", len(harness.gw.published))
	}
	post, ok := harness.gw.published[0].(platforms.MetaPost)
	if !ok {
		t.Fatalf("expected a Meta payload, got %T", harness.gw.published[0])
	}
	if post.Message != "New boots are here\n\n#boots #winter" {
		t.Fatalf("unexpected message: %q", post.Message)
	}

	update, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected publish state update")
	}
	if update["published"] != true || update["platform_post_id"] != "post-1" {
		t.Fatalf("unexpected update: %v", update)
	}
}

func TestPublishContentUnknownRecord(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)

	resp := doJSON(t, harness.router, http.MethodPost, "/content/missing/publish", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPublishContentMissingCredentials(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{ID: "c1", Content: "body"}

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/publish", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(harness.gw.published) != 0 {
		t.Fatal("expected no gateway publish")
	}
}

func TestPublishContentGatewayFailure(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{ID: "c1", Content: "body"}
	seedCredentials(t, harness, "facebook")
	harness.gw.publishErr = errors.New("gateway down")

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/publish", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if _, updated := harness.store.updates["c1"]; updated {
		t.Fatal("expected no publish state update")
	}
}

func TestScheduleContentFutureTime(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{ID: "c1", Content: "body"}

	when := time.Now().Add(2 * time.Hour).UTC()
	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/schedule", map[string]interface{}{
		"platform":      "instagram",
		"schedule_time": when.Format(time.RFC3339),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	update, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected schedule update")
	}
	if update["scheduled_platform"] != "instagram" {
		t.Fatalf("unexpected update: %v", update)
	}
}

func TestScheduleContentRejectsPastTime(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{ID: "c1", Content: "body"}

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/schedule", map[string]interface{}{
		"platform":      "instagram",
		"schedule_time": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetContentInsightsPersistsSnapshot(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedPublishedRecord(harness)
	seedCredentials(t, harness, "facebook")
	harness.gw.performance = map[string]interface{}{"impressions": float64(1200), "likes": float64(80)}

	req := httptest.NewRequest(http.MethodGet, "/content/c1/insights", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(harness.store.insights) != 1 {
		t.Fatalf("expected 1 insights snapshot, got %d", len(harness.store.insights))
	}
	snapshot := harness.store.insights[0]
	if snapshot.ContentID != "c1" || snapshot.Platform != "facebook" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	latest, ok := harness.store.performance["c1/facebook"]
	if !ok {
		t.Fatal("expected a latest performance row")
	}
	if latest.PlatformPostID != "post-9" || latest.Metrics["likes"] != float64(80) {
		t.Fatalf("unexpected latest performance: %+v", latest)
	}
}

func TestSyncContentUpdatesPublishedPost(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedPublishedRecord(harness)
	seedCredentials(t, harness, "facebook")

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/sync", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gw.updated) != 1 {
		t.Fatalf("expected 1 gateway update, got %d", len(harness.gw.updated))
	}
	if len(harness.gw.published) != 0 {
		t.Fatal("expected no new post for a published record")
	}

	update, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected a sync state update")
	}
	if update["synced_with_platform"] != true {
		t.Fatalf("unexpected update: %v", update)
	}
	if _, ok := update["last_synced_at"]; !ok {
		t.Fatal("expected last_synced_at to be recorded")
	}

	var body struct {
		Created        bool   `json:"created"`
		PlatformPostID string `json:"platform_post_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Created || body.PlatformPostID != "post-9" {
		t.Fatalf("unexpected sync result: %+v", body)
	}
}

func TestSyncContentPublishesUnpublishedRecord(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{
		ID:          "c1",
		ContentType: "social_media_facebook",
		Content:     "New boots are here",
	}
	seedCredentials(t, harness, "facebook")

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/sync", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gw.published) != 1 {
		t.Fatalf("expected 1 gateway publish, got %d", len(harness.gw.published))
	}
	update, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected a publish state update")
	}
	if update["platform_post_id"] != "post-1" || update["synced_with_platform"] != true {
		t.Fatalf("unexpected update: %v", update)
	}

	var body struct {
		Created bool `json:"created"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Created {
		t.Fatal("expected a newly created post")
	}
}

func TestSyncContentGatewayFailure(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedPublishedRecord(harness)
	seedCredentials(t, harness, "facebook")
	harness.gw.updateErr = errors.New("gateway down")

	resp := doJSON(t, harness.router, http.MethodPost, "/content/c1/sync", map[string]interface{}{
		"platform": "facebook",
	})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if _, updated := harness.store.updates["c1"]; updated {
		t.Fatal("expected no sync state update")
	}
}

func TestGetPlatformAnalyticsStoresSnapshot(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedCredentials(t, harness, "facebook")
	harness.gw.analytics = map[string]interface{}{"followers": float64(5400), "reach": float64(120000)}

	req := httptest.NewRequest(http.MethodGet, "/analytics/facebook?start_date=2026-08-01&end_date=2026-08-28", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	snapshot, ok := harness.store.analytics["facebook/2026-08-01/2026-08-28"]
	if !ok {
		t.Fatalf("expected a stored analytics snapshot, have %v", harness.store.analytics)
	}
	if snapshot.Analytics["followers"] != float64(5400) {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	var body struct {
		Platform  string                 `json:"platform"`
		Analytics map[string]interface{} `json:"analytics"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Platform != "facebook" || body.Analytics["reach"] != float64(120000) {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestGetPlatformAnalyticsRejectsBadDates(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedCredentials(t, harness, "facebook")

	req := httptest.NewRequest(http.MethodGet, "/analytics/facebook?start_date=yesterday", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(harness.store.analytics) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestGetContentInsightsRequiresPublish(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	harness.store.contents["c1"] = models.ContentRecord{ID: "c1", Content: "body"}

	req := httptest.NewRequest(http.MethodGet, "/content/c1/insights", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDeleteContentFromPlatformClearsState(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedPublishedRecord(harness)
	seedCredentials(t, harness, "facebook")

	req := httptest.NewRequest(http.MethodDelete, "/content/c1/platform", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(harness.gw.deleted) != 1 || harness.gw.deleted[0] != "post-9" {
		t.Fatalf("unexpected gateway deletes: %v", harness.gw.deleted)
	}
	update, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected state update")
	}
	if update["published"] != false || update["platform_post_id"] != "" {
		t.Fatalf("unexpected update: %v", update)
	}
}

func TestSetCredentialsEncryptsValues(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)

	resp := doJSON(t, harness.router, http.MethodPost, "/credentials/facebook", map[string]interface{}{
		"credentials": map[string]string{"access_token": "plain-secret", "page_id": "12345"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored, ok := harness.store.creds["facebook"]
	if !ok {
		t.Fatal("expected stored credentials")
	}
	for key, value := range stored.Credentials {
		if !crypto.IsEncrypted(value) {
			t.Fatalf("expected %s to be encrypted, got %q", key, value)
		}
		plain, err := harness.encryptor.Decrypt(value)
		if err != nil {
			t.Fatalf("decrypt %s: %v", key, err)
		}
		if plain != "plain-secret" && plain != "12345" {
			t.Fatalf("unexpected roundtrip value: %q", plain)
		}
	}
}

func TestGetCredentialsNeverReturnsValues(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)
	seedCredentials(t, harness, "facebook")

	req := httptest.NewRequest(http.MethodGet, "/credentials/facebook", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Fields []string `json:"fields"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Fields) != 1 || body.Fields[0] != "access_token" {
		t.Fatalf("unexpected fields: %v", body.Fields)
	}
	if bodyStr := resp.Body.String(); strings.Contains(bodyStr, "secret-token") || strings.Contains(bodyStr, "enc:v1:") {
		t.Fatal("credential values leaked in response")
	}
}

func TestGetCredentialsNotConfigured(t *testing.T) {
	harness := setupContentHandlers(t, "unused", nil)

	req := httptest.NewRequest(http.MethodGet, "/credentials/tiktok", nil)
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
