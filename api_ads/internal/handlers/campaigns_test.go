package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/theo45530/commerceai-pro/pkg/cache"
	"github.com/theo45530/commerceai-pro/pkg/clients/gateway"
	"github.com/theo45530/commerceai-pro/pkg/crypto"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
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
	campaigns map[string]models.AdCampaign
	inserted  []models.AdCampaign
	updates   map[string]bson.M
	snapshots []models.AdPerformance
	history   []models.AdPerformance
	creds     map[string]models.PlatformCredentials
}

func (s *storeStub) InsertCampaign(_ context.Context, rec models.AdCampaign) error {
	s.inserted = append(s.inserted, rec)
	s.campaigns[rec.ID] = rec
	return nil
}

func (s *storeStub) GetCampaign(_ context.Context, id string) (models.AdCampaign, error) {
	rec, ok := s.campaigns[id]
	if !ok {
		return models.AdCampaign{}, errors.New("not found")
	}
	return rec, nil
}

func (s *storeStub) ListCampaigns(_ context.Context, platform string, _ int64) ([]models.AdCampaign, error) {
	campaigns := []models.AdCampaign{}
	for _, rec := range s.campaigns {
		if platform == "" || rec.Platform == platform {
			campaigns = append(campaigns, rec)
		}
	}
	return campaigns, nil
}

func (s *storeStub) UpdateCampaign(_ context.Context, id string, set bson.M) error {
	if _, ok := s.campaigns[id]; !ok {
		return errors.New("not found")
	}
	s.updates[id] = set
	return nil
}

func (s *storeStub) InsertPerformance(_ context.Context, perf models.AdPerformance) error {
	s.snapshots = append(s.snapshots, perf)
	return nil
}

func (s *storeStub) ListPerformance(_ context.Context, campaignID string, _ int64) ([]models.AdPerformance, error) {
	history := []models.AdPerformance{}
	for _, snapshot := range s.history {
		if snapshot.CampaignID == campaignID {
			history = append(history, snapshot)
		}
	}
	return history, nil
}

func (s *storeStub) UpsertCredentials(_ context.Context, creds models.PlatformCredentials) error {
	s.creds[creds.Platform] = creds
	return nil
}

func (s *storeStub) GetCredentials(_ context.Context, platform string) (models.PlatformCredentials, error) {
	creds, ok := s.creds[platform]
	if !ok {
		return models.PlatformCredentials{}, errors.New("not found")
	}
	return creds, nil
}

type gatewayStub struct {
	connectorID  string
	initErr      error
	created      []interface{}
	createErr    error
	updated      []interface{}
	updateErr    error
	insights     map[string]interface{}
	insightCalls int
	insightsErr  error
}

func (g *gatewayStub) InitializeConnector(_ context.Context, _ string, _ map[string]interface{}) (string, error) {
	if g.initErr != nil {
		return "", g.initErr
	}
	return g.connectorID, nil
}

func (g *gatewayStub) CreateCampaign(_ context.Context, _, _ string, campaign interface{}) (*gateway.CampaignResult, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, campaign)
	return &gateway.CampaignResult{CampaignID: "camp-1"}, nil
}

func (g *gatewayStub) UpdateCampaign(_ context.Context, _, _, _ string, update interface{}) (map[string]interface{}, error) {
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	g.updated = append(g.updated, update)
	return map[string]interface{}{"success": true}, nil
}

func (g *gatewayStub) GetCampaignInsights(_ context.Context, _, _, _ string) (map[string]interface{}, error) {
	g.insightCalls++
	if g.insightsErr != nil {
		return nil, g.insightsErr
	}
	return g.insights, nil
}

type adsHarness struct {
	router   *gin.Engine
	store    *storeStub
	provider *providerStub
	gateway  *gatewayStub
}

func setupAdHandlers(t *testing.T, reply string, llmErr error) *adsHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := &storeStub{
		campaigns: map[string]models.AdCampaign{},
		updates:   map[string]bson.M{},
		creds:     map[string]models.PlatformCredentials{},
	}
	p := &providerStub{reply: reply, err: llmErr}
	g := &gatewayStub{connectorID: "conn-1"}
	enc, err := crypto.DeriveFieldEncryptor([]byte("test-master-key"), "platform-credentials")
	if err != nil {
		t.Fatalf("derive encryptor: %v", err)
	}
	pc := cache.New(cache.Options{TTL: time.Minute, MaxEntries: 16}, cache.Hooks{})
	Init(st, p, g, enc, pc, nil, logging.NewLogger())

	router := gin.New()
	router.POST("/campaigns", CreateCampaign)
	router.GET("/campaigns", ListCampaigns)
	router.POST("/campaigns/ab-test", CreateABTest)
	router.GET("/campaigns/:id", GetCampaign)
	router.PUT("/campaigns/:id", UpdateCampaign)
	router.POST("/campaigns/:id/sync", SyncCampaign)
	router.GET("/campaigns/:id/performance", GetCampaignPerformance)
	router.POST("/campaigns/:id/optimize", OptimizeCampaign)
	router.POST("/credentials/:platform", SetCredentials)
	router.GET("/credentials/:platform", GetCredentials)
	return &adsHarness{router: router, store: st, provider: p, gateway: g}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func seedCredentials(t *testing.T, harness *adsHarness, platform string) {
	t.Helper()
	resp := doJSON(t, harness.router, http.MethodPost, "/credentials/"+platform, map[string]interface{}{
		"credentials": map[string]string{"access_token": "secret-token"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("seed credentials: %d: %s", resp.Code, resp.Body.String())
	}
}

func seedCampaign(harness *adsHarness, id string) models.AdCampaign {
	rec := models.AdCampaign{
		ID: id,
		Campaign: models.Campaign{
			Name:      "Winter Launch",
			Objective: models.ObjectiveConversions,
			Budget:    40,
			Platform:  "meta",
		},
		Platform:           "meta",
		PlatformCampaignID: "camp-9",
		Status:             platforms.StatusPaused,
		CreatedAt:          time.Now().UTC(),
	}
	harness.store.campaigns[id] = rec
	return rec
}

func baseCampaign() map[string]interface{} {
	return map[string]interface{}{
		"name":      "Winter Launch",
		"objective": "conversions",
		"budget":    40,
		"platform":  "meta",
		"target_audience": map[string]interface{}{
			"age_min":   25,
			"age_max":   45,
			"interests": []string{"hiking"},
		},
	}
}

func TestCreateCampaignTransformsForMeta(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns", baseCampaign())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gateway.created) != 1 {
		t.Fatalf("expected 1 gateway create, got %d", len(harness.gateway.created))
	}
	mc, ok := harness.gateway.created[0].(platforms.MetaCampaign)
	if !ok {
		t.Fatalf("expected a meta payload, got %T", harness.gateway.created[0])
	}
	if mc.Status != platforms.StatusPaused {
		t.Fatalf("expected paused creation, got %q", mc.Status)
	}
	if mc.DailyBudget != 4000 {
		t.Fatalf("expected budget in cents, got %d", mc.DailyBudget)
	}

	if len(harness.store.inserted) != 1 {
		t.Fatalf("expected 1 stored campaign, got %d", len(harness.store.inserted))
	}
	rec := harness.store.inserted[0]
	if rec.Status != platforms.StatusPaused {
		t.Fatalf("unexpected status: %q", rec.Status)
	}
	if rec.PlatformCampaignID != "camp-1" {
		t.Fatalf("unexpected platform campaign id: %q", rec.PlatformCampaignID)
	}
}

func TestCreateCampaignRejectsNegativeBudget(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")

	body := baseCampaign()
	body["budget"] = -5
	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns", body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(harness.gateway.created) != 0 {
		t.Fatal("expected no gateway call")
	}
}

func TestCreateCampaignMissingCredentials(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns", baseCampaign())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateCampaignGatewayFailure(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	harness.gateway.createErr = errors.New("gateway down")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns", baseCampaign())
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if len(harness.store.inserted) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestUpdateCampaignPersistsChanges(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	seedCampaign(harness, "c1")

	resp := doJSON(t, harness.router, http.MethodPut, "/campaigns/c1", map[string]interface{}{
		"budget": 80,
		"status": "ACTIVE",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gateway.updated) != 1 {
		t.Fatalf("expected 1 gateway update, got %d", len(harness.gateway.updated))
	}
	set, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected a stored update")
	}
	if set["campaign.budget"] != 80.0 {
		t.Fatalf("unexpected stored budget: %v", set["campaign.budget"])
	}
	if set["status"] != "ACTIVE" {
		t.Fatalf("unexpected stored status: %v", set["status"])
	}
}

func TestUpdateCampaignRequiresFields(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCampaign(harness, "c1")

	resp := doJSON(t, harness.router, http.MethodPut, "/campaigns/c1", map[string]interface{}{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSyncCampaignUpdatesExisting(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	seedCampaign(harness, "c1")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/c1/sync", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gateway.updated) != 1 {
		t.Fatalf("expected 1 gateway update, got %d", len(harness.gateway.updated))
	}
	if len(harness.gateway.created) != 0 {
		t.Fatal("expected no gateway create for an already-created campaign")
	}

	var body struct {
		Created            bool   `json:"created"`
		PlatformCampaignID string `json:"platform_campaign_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Created || body.PlatformCampaignID != "camp-9" {
		t.Fatalf("unexpected sync result: %+v", body)
	}
}

func TestSyncCampaignCreatesMissingPlatformCampaign(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	rec := seedCampaign(harness, "c1")
	rec.PlatformCampaignID = ""
	harness.store.campaigns["c1"] = rec

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/c1/sync", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.gateway.created) != 1 {
		t.Fatalf("expected 1 gateway create, got %d", len(harness.gateway.created))
	}
	set, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected a stored sync update")
	}
	if set["platform_campaign_id"] != "camp-1" {
		t.Fatalf("unexpected stored platform id: %v", set["platform_campaign_id"])
	}
	if set["status"] != platforms.StatusPaused {
		t.Fatalf("unexpected stored status: %v", set["status"])
	}

	var body struct {
		Created bool `json:"created"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Created {
		t.Fatal("expected a newly created platform campaign")
	}
}

func TestPerformanceComputesRates(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	seedCampaign(harness, "c1")
	harness.gateway.insights = map[string]interface{}{
		"impressions": 1000.0,
		"clicks":      50.0,
		"conversions": 5.0,
		"spend":       100.0,
	}

	resp := doJSON(t, harness.router, http.MethodGet, "/campaigns/c1/performance", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Performance models.AdPerformance `json:"performance"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	perf := result.Performance
	if perf.CTR != 0.05 {
		t.Fatalf("unexpected ctr: %v", perf.CTR)
	}
	if perf.ConversionRate != 0.1 {
		t.Fatalf("unexpected conversion rate: %v", perf.ConversionRate)
	}
	if perf.CPA != 20 {
		t.Fatalf("unexpected cpa: %v", perf.CPA)
	}
	if perf.ROAS != 2.5 {
		t.Fatalf("unexpected roas: %v", perf.ROAS)
	}

	if len(harness.store.snapshots) != 1 {
		t.Fatalf("expected 1 stored snapshot, got %d", len(harness.store.snapshots))
	}
}

func TestPerformanceZeroTraffic(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	seedCampaign(harness, "c1")
	harness.gateway.insights = map[string]interface{}{
		"impressions": 0.0,
		"clicks":      0.0,
		"conversions": 0.0,
		"spend":       0.0,
	}

	resp := doJSON(t, harness.router, http.MethodGet, "/campaigns/c1/performance", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result struct {
		Performance models.AdPerformance `json:"performance"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	perf := result.Performance
	if perf.CTR != 0 || perf.ConversionRate != 0 || perf.CPA != 0 || perf.ROAS != 0 {
		t.Fatalf("expected zero rates, got %+v", perf)
	}
}

func TestPerformanceServedFromCache(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	seedCredentials(t, harness, "meta")
	seedCampaign(harness, "c1")
	harness.gateway.insights = map[string]interface{}{"impressions": 10.0}

	for i := 0; i < 2; i++ {
		resp := doJSON(t, harness.router, http.MethodGet, "/campaigns/c1/performance", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}
	if harness.gateway.insightCalls != 1 {
		t.Fatalf("expected 1 gateway fetch, got %d", harness.gateway.insightCalls)
	}
}

func TestPerformanceRequiresPlatformCampaign(t *testing.T) {
	harness := setupAdHandlers(t, "", nil)
	rec := seedCampaign(harness, "c1")
	rec.PlatformCampaignID = ""
	harness.store.campaigns["c1"] = rec

	resp := doJSON(t, harness.router, http.MethodGet, "/campaigns/c1/performance", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

const optimizeReply = "The campaign is steady overall.\n\n" +
	"Strong CTR for the vertical\n\n" +
	"Conversion volume is thin\n\n" +
	"Shift budget to the best performing ad set\nBroaden the lookalike audiences"

func TestOptimizeAppliesBudgetAdjustment(t *testing.T) {
	harness := setupAdHandlers(t, optimizeReply, nil)
	seedCampaign(harness, "c1")
	harness.store.history = []models.AdPerformance{
		{CampaignID: "c1", Impressions: 500, Clicks: 25, Conversions: 2, Spend: 50},
		{CampaignID: "c1", Impressions: 500, Clicks: 25, Conversions: 3, Spend: 50},
	}

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/c1/optimize", map[string]interface{}{
		"budget_adjustment":    25,
		"creative_suggestions": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Budget            float64  `json:"budget"`
		OptimizationAreas []string `json:"optimization_areas"`
		Strengths         []string `json:"strengths"`
		Recommendations   []string `json:"recommendations"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Budget != 65 {
		t.Fatalf("unexpected budget: %v", result.Budget)
	}
	if len(result.OptimizationAreas) != 2 || result.OptimizationAreas[0] != "budget adjustment" {
		t.Fatalf("unexpected areas: %v", result.OptimizationAreas)
	}
	if len(result.Strengths) != 1 || result.Strengths[0] != "Strong CTR for the vertical" {
		t.Fatalf("unexpected strengths: %v", result.Strengths)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("unexpected recommendations: %v", result.Recommendations)
	}

	set, ok := harness.store.updates["c1"]
	if !ok {
		t.Fatal("expected a stored budget update")
	}
	if set["campaign.budget"] != 65.0 {
		t.Fatalf("unexpected stored budget: %v", set["campaign.budget"])
	}
}

func TestOptimizeRejectsNegativeResultingBudget(t *testing.T) {
	harness := setupAdHandlers(t, optimizeReply, nil)
	seedCampaign(harness, "c1")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/c1/optimize", map[string]interface{}{
		"budget_adjustment": -100,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(harness.provider.prompts) != 0 {
		t.Fatal("expected no completion call")
	}
}

func TestOptimizeCompletionFailure(t *testing.T) {
	harness := setupAdHandlers(t, "", errors.New("provider down"))
	seedCampaign(harness, "c1")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/c1/optimize", map[string]interface{}{
		"creative_suggestions": true,
	})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if len(harness.store.updates) != 0 {
		t.Fatal("expected no stored update")
	}
}

func TestCreateABTestCreatesTwoPausedVariants(t *testing.T) {
	harness := setupAdHandlers(t, "Variation A leans on urgency, variation B on social proof.", nil)
	seedCredentials(t, harness, "meta")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/ab-test", map[string]interface{}{
		"campaign": baseCampaign(),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(harness.store.inserted) != 2 {
		t.Fatalf("expected 2 stored variants, got %d", len(harness.store.inserted))
	}
	a, b := harness.store.inserted[0], harness.store.inserted[1]
	if a.Campaign.Name != "Winter Launch - Variation A" || b.Campaign.Name != "Winter Launch - Variation B" {
		t.Fatalf("unexpected variant names: %q, %q", a.Campaign.Name, b.Campaign.Name)
	}
	if a.ABTestGroup != "A" || b.ABTestGroup != "B" {
		t.Fatalf("unexpected test groups: %q, %q", a.ABTestGroup, b.ABTestGroup)
	}
	if a.Status != platforms.StatusPaused || b.Status != platforms.StatusPaused {
		t.Fatal("expected both variants paused")
	}
	if len(harness.gateway.created) != 2 {
		t.Fatalf("expected 2 gateway creates, got %d", len(harness.gateway.created))
	}
}

func TestCreateABTestSurvivesNotesFailure(t *testing.T) {
	harness := setupAdHandlers(t, "", errors.New("provider down"))
	seedCredentials(t, harness, "meta")

	resp := doJSON(t, harness.router, http.MethodPost, "/campaigns/ab-test", map[string]interface{}{
		"campaign": baseCampaign(),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(harness.store.inserted) != 2 {
		t.Fatalf("expected 2 stored variants, got %d", len(harness.store.inserted))
	}
}
