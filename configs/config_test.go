package configs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "GRPC_ADDR", "STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "JWT_SECRET", "JWT_KEY_ID", "JWT_TTL", "BCRYPT_COST",
		"CORS_ORIGINS", "CONSUL_ADDRESS", "SERVICE_NAME", "SERVICE_HOST", "LOG_LEVEL", "LOG_FORMAT",
		"REQUEST_LOG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.RequestLog)
	assert.Equal(t, 8000, cfg.Port())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HTTP_ADDR", "0.0.0.0:9090")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("REQUEST_LOG", "false")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.Port())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.False(t, cfg.RequestLog)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"unknown driver": {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"bad ttl":        {"JWT_SECRET": "s", "JWT_TTL": "soon"},
		"negative ttl":   {"JWT_SECRET": "s", "JWT_TTL": "-1h"},
		"bad cost":       {"JWT_SECRET": "s", "BCRYPT_COST": "high"},
		"cost too high":  {"JWT_SECRET": "s", "BCRYPT_COST": "32"},
		"cost too low":   {"JWT_SECRET": "s", "BCRYPT_COST": "3"},
		"bad request":    {"JWT_SECRET": "s", "REQUEST_LOG": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, _, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRegisterService(t *testing.T) {
	var got ConsulService
	var method, path string
	consul := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer consul.Close()

	service := NewConsulService("notes-server", "10.0.0.5", 8000)
	require.NoError(t, RegisterService(context.Background(), consul.Client(), consul.URL, service))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/v1/agent/service/register", path)
	assert.Equal(t, "notes-server-10.0.0.5-8000", got.ID)
	assert.Equal(t, "http://10.0.0.5:8000/health", got.Check["HTTP"])
}

func TestRegisterService_Rejected(t *testing.T) {
	consul := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer consul.Close()

	err := RegisterService(context.Background(), consul.Client(), consul.URL, NewConsulService("n", "h", 1))
	assert.Error(t, err)
}
