package configs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ConsulService struct {
	ID      string            `json:"ID"`
	Name    string            `json:"Name"`
	Address string            `json:"Address"`
	Port    int               `json:"Port"`
	Check   map[string]string `json:"Check"`
}

// RegisterService registers the service with the Consul agent at consulAddress.
func RegisterService(ctx context.Context, client *http.Client, consulAddress string, service ConsulService) error {
	data, err := json.Marshal(service)
	if err != nil {
		return fmt.Errorf("failed to marshal service data: %w", err)
	}

	url := fmt.Sprintf("%s/v1/agent/service/register", consulAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create PUT request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to register service with Consul: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to register service with Consul: %s", resp.Status)
	}
	return nil
}

// NewConsulService describes this server with an HTTP health check.
func NewConsulService(name, host string, port int) ConsulService {
	return ConsulService{
		ID:      fmt.Sprintf("%s-%s-%d", name, host, port),
		Name:    name,
		Address: host,
		Port:    port,
		Check: map[string]string{
			"HTTP":     fmt.Sprintf("http://%s:%d/health", host, port),
			"Interval": "10s",
		},
	}
}
