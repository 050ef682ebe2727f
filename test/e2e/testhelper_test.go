package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/marcos-nsantos/account-api/internal/adapter/handler"
	"github.com/marcos-nsantos/account-api/internal/adapter/notification"
	pgRepo "github.com/marcos-nsantos/account-api/internal/adapter/repository/postgres"
	redisRepo "github.com/marcos-nsantos/account-api/internal/adapter/repository/redis"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/auth"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/database"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/server"
	"github.com/marcos-nsantos/account-api/internal/usecase/account"
)

const (
	testDBUser     = "testuser"
	testDBPassword = "testpass"
	testDBName     = "testdb"
	testJWTSecret  = "test-secret-key-for-e2e-tests"
	testTokenTTL   = 60 * time.Minute
)

type TestApp struct {
	Server     *httptest.Server
	Pool       *pgxpool.Pool
	Redis      *goredis.Client
	Service    *account.Service
	Outbox     *memoryPublisher
	BaseURL    string
	containers []testcontainers.Container
	httpClient *http.Client
}

// memoryPublisher stands in for the RabbitMQ queue.
type memoryPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *memoryPublisher) Publish(_ context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, body)
	return nil
}

func (p *memoryPublisher) Jobs(t *testing.T) []notification.EmailJob {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	jobs := make([]notification.EmailJob, 0, len(p.messages))
	for _, m := range p.messages {
		var job notification.EmailJob
		require.NoError(t, json.Unmarshal(m, &job))
		jobs = append(jobs, job)
	}
	return jobs
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	app := &TestApp{httpClient: &http.Client{Timeout: 10 * time.Second}}

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	app.containers = append(app.containers, pgContainer)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	app.Pool, err = pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(ctx, app.Pool, getMigrationsPath()))

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	app.containers = append(app.containers, redisContainer)

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)
	app.Redis = goredis.NewClient(&goredis.Options{Addr: redisAddr})

	logger := zaptest.NewLogger(t)
	app.Outbox = &memoryPublisher{}

	jwtSvc := auth.NewJWTService(testJWTSecret, "account-api-test")
	passwordHasher := auth.NewPasswordHasher(4)

	app.Service = account.NewService(
		pgRepo.NewUserRepo(app.Pool),
		redisRepo.NewSessionRepo(app.Redis),
		passwordHasher,
		jwtSvc,
		notification.NewQueueSink(app.Outbox),
		logger,
		account.Options{TokenTTL: testTokenTTL, VerifyCurrentPassword: true},
	)

	router := server.NewRouter(server.RouterConfig{
		AccountHandler: handler.NewAccountHandler(app.Service),
		AuthMiddleware: middleware.NewAuthMiddleware(app.Service),
		Logger:         logger,
		Environment:    "test",
		AllowedOrigins: []string{"*"},
	})

	app.Server = httptest.NewServer(router.Engine())
	app.BaseURL = app.Server.URL

	return app
}

func (app *TestApp) cleanup(t *testing.T) {
	t.Helper()

	app.Server.Close()
	app.Service.Wait()
	app.Pool.Close()
	_ = app.Redis.Close()

	ctx := context.Background()
	for _, c := range app.containers {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}

func (app *TestApp) request(method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, app.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.httpClient.Do(req)
}

func (app *TestApp) get(path string, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodGet, path, nil, headers)
}

func (app *TestApp) post(path string, body any, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodPost, path, body, headers)
}

func (app *TestApp) login(t *testing.T, email, password string) string {
	t.Helper()

	resp, err := app.post("/auth/login", map[string]string{"email": email, "password": password}, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]any
	parseResponse(t, resp, &loginResp)
	return loginResp["access_token"].(string)
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		err = json.Unmarshal(body, dest)
		require.NoError(t, err, "response body: %s", string(body))
	}
}

func authHeader(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

func getMigrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	testDir := filepath.Dir(filename)
	return filepath.Join(testDir, "..", "..", "migrations")
}
