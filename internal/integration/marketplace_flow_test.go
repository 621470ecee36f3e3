package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"loker/internal/app"
	"loker/internal/config"
	"loker/internal/database"
	"loker/internal/database/migration"
	dbpostgres "loker/internal/database/postgres"
	v1 "loker/internal/delivery/http/routes/v1"
	"loker/internal/ws"
	"loker/migrations"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	Account struct {
		ID uuid.UUID `json:"id"`
	} `json:"account"`
	AccessToken string `json:"access_token"`
}

type feedData struct {
	Jobs []struct {
		ID         uuid.UUID `json:"id"`
		RawScore   int       `json:"raw_score"`
		MatchScore int       `json:"match_score"`
		IsSaved    bool      `json:"is_saved"`
	} `json:"jobs"`
	SearchStrategy string `json:"search_strategy"`
}

type quotaData struct {
	CurrentCount int    `json:"current_count"`
	MaxAllowed   int    `json:"max_allowed"`
	Subscription string `json:"subscription"`
}

type seededIDs struct {
	orgID       uuid.UUID
	activeJobs  []uuid.UUID
	inactiveJob uuid.UUID
	email       string
}

func TestIntegration_Feed_SavedJobsQuota_Apply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	if _, err := (migration.Runner{FS: migrations.FS}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	seed := seedJobs(t, ctx, db)
	defer cleanupSeed(t, db, seed)

	fiberApp := newTestApp(t, ctx, db)

	auth := registerCandidate(t, fiberApp, seed.email)
	if auth.AccessToken == "" {
		t.Fatalf("register: empty access_token")
	}
	if _, err := db.Exec(ctx, `UPDATE candidates SET skill_ids = ARRAY['go'] WHERE id = $1`, auth.Account.ID); err != nil {
		t.Fatalf("update candidate skills: %v", err)
	}

	var feed feedData
	status := call(t, fiberApp, http.MethodGet, "/api/v1/jobs/feed?limit=50", auth.AccessToken, &feed)
	if status != fiber.StatusOK {
		t.Fatalf("feed: expected 200, got %d", status)
	}
	if feed.SearchStrategy != "user_based" {
		t.Fatalf("feed: expected user_based strategy, got %q", feed.SearchStrategy)
	}
	seen := map[uuid.UUID]bool{}
	for i, j := range feed.Jobs {
		seen[j.ID] = true
		if i > 0 && feed.Jobs[i-1].RawScore < j.RawScore {
			t.Fatalf("feed: not sorted by score at %d", i)
		}
		if j.MatchScore < 0 || j.MatchScore > 100 {
			t.Fatalf("feed: display score out of range: %d", j.MatchScore)
		}
	}
	if seen[seed.inactiveJob] {
		t.Fatalf("feed: inactive job returned")
	}
	if !seen[seed.activeJobs[0]] {
		t.Fatalf("feed: expected remote seeded job in feed")
	}

	for i := 0; i < 2; i++ {
		if status := call(t, fiberApp, http.MethodPost, "/api/v1/me/saved-jobs/"+seed.activeJobs[i].String(), auth.AccessToken, nil); status != fiber.StatusCreated {
			t.Fatalf("save job %d: expected 201, got %d", i, status)
		}
	}

	var quota quotaData
	status = call(t, fiberApp, http.MethodPost, "/api/v1/me/saved-jobs/"+seed.activeJobs[2].String(), auth.AccessToken, &quota)
	if status != fiber.StatusForbidden {
		t.Fatalf("save over quota: expected 403, got %d", status)
	}
	if quota.CurrentCount != 2 || quota.MaxAllowed != 2 || quota.Subscription != "free" {
		t.Fatalf("save over quota: unexpected data %+v", quota)
	}

	applyPath := "/api/v1/jobs/" + seed.activeJobs[0].String() + "/applications"
	if status := call(t, fiberApp, http.MethodPost, applyPath, auth.AccessToken, nil); status != fiber.StatusCreated {
		t.Fatalf("apply: expected 201, got %d", status)
	}
	if status := call(t, fiberApp, http.MethodPost, applyPath, auth.AccessToken, nil); status != fiber.StatusConflict {
		t.Fatalf("apply twice: expected 409, got %d", status)
	}
	applyInactive := "/api/v1/jobs/" + seed.inactiveJob.String() + "/applications"
	if status := call(t, fiberApp, http.MethodPost, applyInactive, auth.AccessToken, nil); status != fiber.StatusNotFound {
		t.Fatalf("apply inactive: expected 404, got %d", status)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("LOKER_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("LOKER_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("LOKER_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("LOKER_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("LOKER_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("LOKER_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set LOKER_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func newTestApp(t *testing.T, ctx context.Context, db database.DB) *fiber.App {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := ws.NewHub(nil)
	hubCtx, stop := context.WithCancel(ctx)
	t.Cleanup(stop)
	go hub.Run(hubCtx)

	cfg := config.Config{
		App: config.AppConfig{AppName: "loker-test", PublicBaseURL: "http://api.test"},
		JWT: config.JWTConfig{
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		Assets: config.AssetsConfig{
			StorageBaseURL: "https://storage.test",
			DefaultLinkTTL: 5 * time.Minute,
			MaxLinkTTL:     time.Hour,
		},
		Feed: config.FeedConfig{DefaultPageSize: 10, MaxPageSize: 50},
	}
	return app.New(cfg, v1.Deps{Config: cfg, DB: db, Redis: rdb, Hub: hub}).Fiber
}

func seedJobs(t *testing.T, ctx context.Context, db database.DB) seededIDs {
	t.Helper()

	seed := seededIDs{
		orgID: uuid.New(),
		email: "candidate-" + uuid.NewString()[:8] + "@loker.test",
	}
	if _, err := db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role) VALUES ($1, $2, 'x', 'organization')`,
		seed.orgID, "org-"+seed.orgID.String()[:8]+"@loker.test",
	); err != nil {
		t.Fatalf("insert org account: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO organizations (id, name) VALUES ($1, 'Integration Org')`, seed.orgID); err != nil {
		t.Fatalf("insert organization: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO skills (id, name) VALUES ('go', 'Go') ON CONFLICT (id) DO NOTHING`); err != nil {
		t.Fatalf("insert skill: %v", err)
	}

	insert := func(title, workType string, province *string, active bool) uuid.UUID {
		id := uuid.New()
		if _, err := db.Exec(ctx,
			`INSERT INTO jobs (id, owner_org_id, title, work_type, province_id, required_skill_ids, is_active)
			 VALUES ($1, $2, $3, $4, $5, ARRAY['go'], $6)`,
			id, seed.orgID, title, workType, province, active,
		); err != nil {
			t.Fatalf("insert job %q: %v", title, err)
		}
		return id
	}
	jakarta := "31"
	seed.activeJobs = []uuid.UUID{
		insert("Remote Go Engineer", "remote", nil, true),
		insert("Onsite Go Engineer", "onsite", &jakarta, true),
		insert("Hybrid Go Engineer", "hybrid", &jakarta, true),
	}
	seed.inactiveJob = insert("Closed Go Engineer", "remote", nil, false)
	return seed
}

func cleanupSeed(t *testing.T, db database.DB, seed seededIDs) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = db.Exec(ctx, `DELETE FROM applications WHERE job_id IN (SELECT id FROM jobs WHERE owner_org_id = $1)`, seed.orgID)
	_, _ = db.Exec(ctx, `DELETE FROM jobs WHERE owner_org_id = $1`, seed.orgID)
	_, _ = db.Exec(ctx, `DELETE FROM accounts WHERE id = $1 OR email = $2`, seed.orgID, seed.email)
}

func registerCandidate(t *testing.T, app *fiber.App, email string) authData {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":        email,
		"password":     "password123",
		"role":         "candidate",
		"display_name": "Integration Candidate",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var out authData
	if status := do(t, app, req, &out); status != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	return out
}

func call(t *testing.T, app *fiber.App, method, path, token string, data any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return do(t, app, req, data)
}

func do(t *testing.T, app *fiber.App, req *http.Request, data any) int {
	t.Helper()

	res, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env semanticResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, raw)
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return res.StatusCode
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
