package toolsvc

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/hunter-mcp/hunter-mcp-go/internal/hunter"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
)

// Tool names exposed to callers.
const (
	ToolFindEmail    = "find-email"
	ToolVerifyEmail  = "verify-email"
	ToolDomainSearch = "domain-search"
	ToolEmailCount   = "email-count"
	ToolAccountInfo  = "get-account-info"
)

// operation binds a tool descriptor to its argument constraints and the
// remote call it maps to. Descriptors are built once at process start and
// never mutated.
type operation struct {
	tool   mcp.Tool
	spec   argSpec
	invoke func(ctx context.Context, c *hunter.Client, params url.Values) (json.RawMessage, error)
}

// operations returns the fixed, ordered tool set.
func operations() []operation {
	return []operation{
		{
			tool: mcp.Tool{
				Name:        ToolFindEmail,
				Description: "Find the most likely email address for a person at a company using their name and the company's domain.",
				InputSchema: reflectInputSchema[FindEmailArgs](),
			},
			spec: argSpec{
				required: []field{{"domain", kindString}},
				optional: []field{
					{"first_name", kindString},
					{"last_name", kindString},
					{"company", kindString},
					{"full_name", kindString},
				},
			},
			invoke: func(ctx context.Context, c *hunter.Client, params url.Values) (json.RawMessage, error) {
				return c.FindEmail(ctx, params)
			},
		},
		{
			tool: mcp.Tool{
				Name:        ToolVerifyEmail,
				Description: "Verify the deliverability of an email address.",
				InputSchema: reflectInputSchema[VerifyEmailArgs](),
			},
			spec: argSpec{
				required: []field{{"email", kindString}},
			},
			invoke: func(ctx context.Context, c *hunter.Client, params url.Values) (json.RawMessage, error) {
				return c.VerifyEmail(ctx, params)
			},
		},
		{
			tool: mcp.Tool{
				Name:        ToolDomainSearch,
				Description: "List the email addresses Hunter has found for a domain or company.",
				InputSchema: reflectInputSchema[DomainSearchArgs](),
			},
			spec: argSpec{
				optional: []field{
					{"domain", kindString},
					{"company", kindString},
					{"limit", kindNumber},
					{"offset", kindNumber},
				},
				anyOf: []string{"domain", "company"},
			},
			invoke: func(ctx context.Context, c *hunter.Client, params url.Values) (json.RawMessage, error) {
				return c.DomainSearch(ctx, params)
			},
		},
		{
			tool: mcp.Tool{
				Name:        ToolEmailCount,
				Description: "Count the email addresses Hunter has for a domain or company.",
				InputSchema: reflectInputSchema[EmailCountArgs](),
			},
			spec: argSpec{
				optional: []field{
					{"domain", kindString},
					{"company", kindString},
					{"type", kindString},
				},
				anyOf: []string{"domain", "company"},
			},
			invoke: func(ctx context.Context, c *hunter.Client, params url.Values) (json.RawMessage, error) {
				return c.EmailCount(ctx, params)
			},
		},
		{
			tool: mcp.Tool{
				Name:        ToolAccountInfo,
				Description: "Get information about the authenticated Hunter account, including plan and remaining requests.",
				InputSchema: reflectInputSchema[AccountInfoArgs](),
			},
			spec: argSpec{},
			invoke: func(ctx context.Context, c *hunter.Client, _ url.Values) (json.RawMessage, error) {
				return c.Account(ctx)
			},
		},
	}
}
