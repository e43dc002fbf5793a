// Package vault wraps the cluster API used by wsops: health, namespace
// listing and deletion, wrapped secret reads, unwrap, and userpass login
// verification.
//
// Namespaced calls clone the underlying client and scope it with
// X-Vault-Namespace, so one admin client serves every attendee namespace.
package vault

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/logging"
)

// StoryPath is the KV-v2 data path of the per-attendee story secret.
const StoryPath = "secret/data/story"

// Config describes the cluster connection.
type Config struct {
	Address string
	Token   string
	Timeout time.Duration
}

// Client is the wsops view of the cluster.
type Client struct {
	api    *api.Client
	logger *logging.Logger
}

// New builds a client for the given cluster. The timeout bounds every
// HTTP call; it is unrelated to wrap TTLs.
func New(cfg Config, logger *logging.Logger) (*Client, error) {
	if cfg.Address == "" {
		return nil, wserrors.ConfigError{
			Field:      "vault.address",
			Message:    "cluster address is not set",
			Suggestion: "Set VAULT_ADDR or vault.address in wsops.yaml",
		}
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	if cfg.Timeout > 0 {
		apiCfg.Timeout = cfg.Timeout
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &Client{api: client, logger: logger}, nil
}

// scoped returns a clone of the client bound to the given namespace.
func (c *Client) scoped(namespace string) (*api.Client, error) {
	clone, err := c.api.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone cluster client: %w", err)
	}
	clone.SetToken(c.api.Token())
	if namespace != "" {
		clone.SetNamespace(namespace)
	}
	return clone, nil
}

// Health verifies the cluster is reachable, initialized, and unsealed.
func (c *Client) Health(ctx context.Context) error {
	health, err := c.api.Sys().HealthWithContext(ctx)
	if err != nil {
		return wserrors.RemoteError{
			Operation:  "health check",
			Message:    "cluster unreachable",
			Suggestion: wserrors.RemoteSuggestion(err),
			Err:        err,
		}
	}
	if !health.Initialized || health.Sealed {
		return wserrors.RemoteError{
			Operation: "health check",
			Message:   fmt.Sprintf("cluster not ready (initialized=%v, sealed=%v)", health.Initialized, health.Sealed),
		}
	}
	return nil
}

// ListNamespaces returns the child namespaces of parent whose names carry
// the given prefix, sorted, without trailing slashes.
func (c *Client) ListNamespaces(ctx context.Context, parent, prefix string) ([]string, error) {
	scoped, err := c.scoped(parent)
	if err != nil {
		return nil, err
	}

	secret, err := scoped.Logical().ListWithContext(ctx, "sys/namespaces")
	if err != nil {
		return nil, wserrors.RemoteError{
			Operation:  "namespace list",
			Message:    "failed to list namespaces under " + parent,
			Suggestion: wserrors.RemoteSuggestion(err),
			Err:        err,
		}
	}
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil, nil
	}

	var names []string
	for _, entry := range raw {
		name, ok := entry.(string)
		if !ok {
			continue
		}
		name = strings.TrimSuffix(name, "/")
		if prefix == "" || strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteNamespace removes one child namespace of parent.
func (c *Client) DeleteNamespace(ctx context.Context, parent, name string) error {
	scoped, err := c.scoped(parent)
	if err != nil {
		return err
	}

	if _, err := scoped.Logical().DeleteWithContext(ctx, "sys/namespaces/"+name); err != nil {
		return wserrors.RemoteError{
			Operation:  "namespace delete",
			Message:    "failed to delete namespace " + name,
			Suggestion: wserrors.RemoteSuggestion(err),
			Err:        err,
		}
	}
	return nil
}

// ReadStoryWrapped reads the attendee's story secret inside namespace and
// asks the cluster to wrap the response with the given TTL. The read and
// the wrap are a single API call, so no unwrapped payload ever leaves the
// cluster. Returns the single-use wrap token.
func (c *Client) ReadStoryWrapped(ctx context.Context, namespace, ttl string) (string, error) {
	scoped, err := c.scoped(namespace)
	if err != nil {
		return "", err
	}
	scoped.SetWrappingLookupFunc(func(operation, path string) string {
		return ttl
	})

	secret, err := scoped.Logical().ReadWithContext(ctx, StoryPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s in %s: %w", StoryPath, namespace, err)
	}
	if secret == nil {
		return "", fmt.Errorf("no story secret found in %s", namespace)
	}
	if secret.WrapInfo == nil || secret.WrapInfo.Token == "" {
		return "", fmt.Errorf("cluster returned no wrap token for %s", namespace)
	}

	if c.logger != nil {
		c.logger.Debug("wrapped story for %s (ttl %s, token %s)", namespace, ttl, logging.Secret(secret.WrapInfo.Token))
	}
	return secret.WrapInfo.Token, nil
}

// Unwrap redeems a wrap token exactly once and returns the raw response
// data. A failed unwrap is reported verbatim as a ConsumedError and must
// not be retried: redemption is single-use, so the only fix is a fresh
// token.
func (c *Client) Unwrap(ctx context.Context, token string) (map[string]interface{}, error) {
	scoped, err := c.scoped("")
	if err != nil {
		return nil, err
	}
	// The wrap token itself authenticates the unwrap call.
	scoped.SetToken(token)

	secret, err := scoped.Logical().UnwrapWithContext(ctx, "")
	if err != nil {
		// Cluster error text can echo the request; keep the token out of
		// anything that gets logged or printed.
		return nil, wserrors.ConsumedError{Raw: logging.Redact(err.Error(), []string{token}), Err: err}
	}
	if secret == nil || secret.Data == nil {
		return nil, wserrors.ConsumedError{Raw: "cluster returned an empty unwrap response"}
	}
	return secret.Data, nil
}

// VerifyUserpass checks that an attendee can log in with the issued
// credentials. Used by status diagnostics only; the returned token is
// discarded.
func (c *Client) VerifyUserpass(ctx context.Context, namespace, username, password string) error {
	scoped, err := c.scoped(namespace)
	if err != nil {
		return err
	}
	scoped.ClearToken()

	secret, err := scoped.Logical().WriteWithContext(ctx, "auth/userpass/login/"+username, map[string]interface{}{
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("userpass login failed for %s in %s: %w", username, namespace, err)
	}
	if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
		return fmt.Errorf("userpass login for %s in %s returned no token", username, namespace)
	}
	return nil
}
