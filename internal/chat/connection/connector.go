// Package connection decides whether a session may fetch facility data and
// remembers that decision.
package connection

import (
	"context"
	"fmt"
	"strings"

	"facility-chat/internal/common/auth"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

// Connector checks credentials against the data source. Any error means
// the session stays disconnected.
type Connector interface {
	Connect(ctx context.Context, creds models.Credentials) error
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context, creds models.Credentials) error

func (f ConnectorFunc) Connect(ctx context.Context, creds models.Credentials) error {
	return f(ctx, creds)
}

func requireCredentials(creds models.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return apperrors.NewAuthenticationError("username and password are required")
	}
	return nil
}

// KeycloakConnector accepts credentials Keycloak can issue a token for.
type KeycloakConnector struct {
	client *auth.KeycloakClient
}

func NewKeycloakConnector(client *auth.KeycloakClient) *KeycloakConnector {
	return &KeycloakConnector{client: client}
}

func (c *KeycloakConnector) Connect(ctx context.Context, creds models.Credentials) error {
	if err := requireCredentials(creds); err != nil {
		return err
	}
	if _, err := c.client.PasswordGrant(ctx, strings.TrimSpace(creds.Username), creds.Password); err != nil {
		return err
	}
	return nil
}

// Prober is satisfied by the database clients' health checks.
type Prober interface {
	Name() string
	Ping(ctx context.Context) error
}

// ProbeConnector accepts any non-empty credentials once every configured
// dependency answers a ping. With no probers it only checks the form.
type ProbeConnector struct {
	probers []Prober
}

func NewProbeConnector(probers ...Prober) *ProbeConnector {
	return &ProbeConnector{probers: probers}
}

func (c *ProbeConnector) Connect(ctx context.Context, creds models.Credentials) error {
	if err := requireCredentials(creds); err != nil {
		return err
	}
	for _, p := range c.probers {
		if err := p.Ping(ctx); err != nil {
			return apperrors.NewExternalServiceError(p.Name(), fmt.Errorf("probe failed: %w", err))
		}
	}
	return nil
}
