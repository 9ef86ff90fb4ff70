package toolsvc

// Typed argument structs for the five tools. The advertised input schemas
// are reflected from these via invopop/jsonschema; fields without omitempty
// become required. Runtime validation of the untyped argument bag is
// handled separately by argSpec so that at-least-one-of groups can be
// enforced.

// FindEmailArgs are the inputs to the email finder.
type FindEmailArgs struct {
	Domain    string `json:"domain" jsonschema:"description=Domain name of the company (e.g. stripe.com)"`
	FirstName string `json:"first_name,omitempty" jsonschema:"description=First name of the person"`
	LastName  string `json:"last_name,omitempty" jsonschema:"description=Last name of the person"`
	Company   string `json:"company,omitempty" jsonschema:"description=Company name"`
	FullName  string `json:"full_name,omitempty" jsonschema:"description=Full name of the person (alternative to first/last name)"`
}

// VerifyEmailArgs are the inputs to the email verifier.
type VerifyEmailArgs struct {
	Email string `json:"email" jsonschema:"description=Email address to verify"`
}

// DomainSearchArgs are the inputs to the domain search. At least one of
// domain or company must be supplied; that constraint lives in the runtime
// validator because the simplified schema shape cannot express it.
type DomainSearchArgs struct {
	Domain  string  `json:"domain,omitempty" jsonschema:"description=Domain name to search (at least one of domain or company is required)"`
	Company string  `json:"company,omitempty" jsonschema:"description=Company name to search (at least one of domain or company is required)"`
	Limit   float64 `json:"limit,omitempty" jsonschema:"description=Maximum number of results to return"`
	Offset  float64 `json:"offset,omitempty" jsonschema:"description=Number of results to skip"`
}

// EmailCountArgs are the inputs to the email count. Same at-least-one-of
// constraint as the domain search.
type EmailCountArgs struct {
	Domain  string `json:"domain,omitempty" jsonschema:"description=Domain name to count addresses for (at least one of domain or company is required)"`
	Company string `json:"company,omitempty" jsonschema:"description=Company name to count addresses for (at least one of domain or company is required)"`
	Type    string `json:"type,omitempty" jsonschema:"description=Filter by address type: personal or generic"`
}

// AccountInfoArgs is the empty input of the account info tool.
type AccountInfoArgs struct{}
