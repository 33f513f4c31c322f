package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/kolo/xmlrpc"
)

// RemoteGenerator asks the company ERP for the next number over XML-RPC, so
// documents created here share one number series with documents created
// directly in the ERP.
type RemoteGenerator struct {
	URL      string
	Database string
	Username string
	Password string
	uid      int
}

// NewRemoteGenerator creates a generator for the given ERP endpoint.
func NewRemoteGenerator(url, db, username, password string) *RemoteGenerator {
	return &RemoteGenerator{
		URL:      url,
		Database: db,
		Username: username,
		Password: password,
	}
}

// Authenticate resolves the ERP user id. Must be called once before the
// first Next* call.
func (g *RemoteGenerator) Authenticate() error {
	client, err := xmlrpc.NewClient(fmt.Sprintf("%s/xmlrpc/2/common", g.URL), nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{g.Database, g.Username, g.Password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	g.uid = uid
	return nil
}

// nextByCode pulls the next value of a named ir.sequence from the ERP.
func (g *RemoteGenerator) nextByCode(ctx context.Context, code string) (string, error) {
	client, err := xmlrpc.NewClient(fmt.Sprintf("%s/xmlrpc/2/object", g.URL), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	args := []interface{}{
		g.Database,
		g.uid,
		g.Password,
		"ir.sequence",
		"next_by_code",
		[]interface{}{code},
	}

	var number string
	if err := client.Call("execute_kw", args, &number); err != nil {
		return "", fmt.Errorf("failed to fetch sequence %s: %w", code, err)
	}
	if number == "" {
		return "", fmt.Errorf("sequence %s is not configured on the ERP", code)
	}
	return number, nil
}

func (g *RemoteGenerator) NextCollectionNumber(ctx context.Context, at time.Time) (string, error) {
	return g.nextByCode(ctx, "returns.collection")
}

func (g *RemoteGenerator) NextManifestNumber(ctx context.Context, at time.Time) (string, error) {
	return g.nextByCode(ctx, "returns.manifest")
}

func (g *RemoteGenerator) NextNCRNumber(ctx context.Context, at time.Time) (string, error) {
	return g.nextByCode(ctx, "returns.ncr")
}
