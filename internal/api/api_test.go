package api_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/trendr/internal/api"
	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/internal/infrastructure"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/internal/worker"
	"github.com/JaimeStill/trendr/pkg/database"
	"github.com/JaimeStill/trendr/pkg/middleware"
	"github.com/JaimeStill/trendr/pkg/pagination"
	"github.com/JaimeStill/trendr/pkg/queue"
	"github.com/JaimeStill/trendr/pkg/secrets"
	"github.com/JaimeStill/trendr/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "trendr",
			User:            "trendr",
			Password:        "trendr",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "media",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "1MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		Queue: queue.Config{
			Addr:    "localhost:6379",
			Stream:  "trendr:tasks",
			Group:   "trendr-workers",
			Workers: 2,
			Block:   "1s",
		},
		Secrets:         secrets.Config{Key: "local-development-secret"},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}

	if err := cfg.Providers.Finalize(nil); err != nil {
		t.Fatalf("providers finalize: %v", err)
	}
	if err := cfg.Media.Finalize(nil); err != nil {
		t.Fatalf("media finalize: %v", err)
	}
	return cfg
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", rec.Code)
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra, "api")

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Providers.TextDefault != providers.NameOpenAI {
		t.Errorf("text default: got %s, want %s", runtime.Providers.TextDefault, providers.NameOpenAI)
	}
	if runtime.Logger == infra.Logger {
		t.Error("runtime logger should be module scoped")
	}
	if runtime.Database == nil || runtime.Storage == nil || runtime.Queue == nil {
		t.Error("runtime is missing infrastructure systems")
	}
	if runtime.Lifecycle != infra.Lifecycle {
		t.Error("runtime lifecycle should be shared")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	domain := api.NewDomain(api.NewRuntime(cfg, infra, "worker"))

	wantNodes := []string{"generate_image", "generate_posts", "ingest_youtube"}
	if got := domain.Nodes.Tasks().Sorted(); !slices.Equal(got, wantNodes) {
		t.Errorf("node tasks: got %v, want %v", got, wantNodes)
	}

	registry := domain.Providers.Registry()
	if got := registry.ListText(); !slices.Contains(got, providers.NameOpenAI) || !slices.Contains(got, providers.NameOpenAIStub) {
		t.Errorf("text providers: got %v", got)
	}
	if got := registry.ListImage(); !slices.Contains(got, providers.NameNanoBanana) {
		t.Errorf("image providers: got %v", got)
	}

	router := worker.NewRouter(domain.Units, infra.Logger)
	wantTasks := []string{"generate_image", "generate_posts", "ingest_youtube", "run_workflow"}
	if got := router.Tasks(); !slices.Equal(got, wantTasks) {
		t.Errorf("queue tasks: got %v, want %v", got, wantTasks)
	}
}
