package toolsvc

import (
	"testing"
)

func specFor(t *testing.T, name string) argSpec {
	t.Helper()
	for _, op := range operations() {
		if op.tool.Name == name {
			return op.spec
		}
	}
	t.Fatalf("no operation named %q", name)
	return argSpec{}
}

func TestValidateFindEmail(t *testing.T) {
	spec := specFor(t, ToolFindEmail)

	cases := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"domain only", map[string]any{"domain": "stripe.com"}, false},
		{"full set", map[string]any{"domain": "stripe.com", "first_name": "Patrick", "last_name": "Collison"}, false},
		{"missing domain", map[string]any{"first_name": "Patrick"}, true},
		{"domain wrong type", map[string]any{"domain": 42.0}, true},
		{"optional wrong type", map[string]any{"domain": "stripe.com", "first_name": 1.0}, true},
		{"optional null", map[string]any{"domain": "stripe.com", "first_name": nil}, true},
		{"nil bag", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := spec.validate(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validate(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
		})
	}
}

func TestValidateVerifyEmail(t *testing.T) {
	spec := specFor(t, ToolVerifyEmail)

	if err := spec.validate(map[string]any{"email": "x@y.com"}); err != nil {
		t.Fatalf("valid args rejected: %v", err)
	}
	if err := spec.validate(map[string]any{}); err == nil {
		t.Fatal("missing email accepted")
	}
	if err := spec.validate(map[string]any{"email": 7.0}); err == nil {
		t.Fatal("numeric email accepted")
	}
}

func TestValidateAlternativeFieldGroups(t *testing.T) {
	for _, name := range []string{ToolDomainSearch, ToolEmailCount} {
		t.Run(name, func(t *testing.T) {
			spec := specFor(t, name)

			if err := spec.validate(map[string]any{"domain": "stripe.com"}); err != nil {
				t.Fatalf("domain alone rejected: %v", err)
			}
			if err := spec.validate(map[string]any{"company": "Stripe"}); err != nil {
				t.Fatalf("company alone rejected: %v", err)
			}
			if err := spec.validate(map[string]any{}); err == nil {
				t.Fatal("empty bag accepted despite alternative-field requirement")
			}
		})
	}
}

func TestValidateDomainSearchNumericOptions(t *testing.T) {
	spec := specFor(t, ToolDomainSearch)

	if err := spec.validate(map[string]any{"domain": "stripe.com", "limit": 10.0, "offset": 0.0}); err != nil {
		t.Fatalf("numeric options rejected: %v", err)
	}
	if err := spec.validate(map[string]any{"domain": "stripe.com", "limit": "10"}); err == nil {
		t.Fatal("string limit accepted")
	}
}

func TestValidateAccountInfo(t *testing.T) {
	spec := specFor(t, ToolAccountInfo)

	if err := spec.validate(map[string]any{}); err != nil {
		t.Fatalf("empty bag rejected: %v", err)
	}
	if err := spec.validate(nil); err == nil {
		t.Fatal("nil bag accepted")
	}
}

func TestValidateDoesNotMutateBag(t *testing.T) {
	spec := specFor(t, ToolFindEmail)
	args := map[string]any{"domain": "stripe.com", "extra": "ignored"}

	if err := spec.validate(args); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(args) != 2 || args["domain"] != "stripe.com" || args["extra"] != "ignored" {
		t.Fatalf("argument bag mutated: %v", args)
	}
}

func TestQueryParamsProjectsDeclaredFieldsOnly(t *testing.T) {
	spec := specFor(t, ToolDomainSearch)
	params := spec.queryParams(map[string]any{
		"domain": "stripe.com",
		"limit":  25.0,
		"rogue":  "value",
	})

	if got := params.Get("domain"); got != "stripe.com" {
		t.Fatalf("domain = %q", got)
	}
	if got := params.Get("limit"); got != "25" {
		t.Fatalf("limit = %q, want 25", got)
	}
	if params.Has("rogue") {
		t.Fatal("undeclared key reached the query parameters")
	}
}

func TestReflectedSchemas(t *testing.T) {
	ops := operations()
	if len(ops) != 5 {
		t.Fatalf("expected 5 operations, got %d", len(ops))
	}

	byName := map[string]operation{}
	for _, op := range ops {
		byName[op.tool.Name] = op
		if op.tool.InputSchema.Type != "object" {
			t.Errorf("%s: schema type = %q", op.tool.Name, op.tool.InputSchema.Type)
		}
		if op.tool.Description == "" {
			t.Errorf("%s: missing description", op.tool.Name)
		}
	}

	fe := byName[ToolFindEmail].tool.InputSchema
	if len(fe.Required) != 1 || fe.Required[0] != "domain" {
		t.Fatalf("find-email required = %v, want [domain]", fe.Required)
	}
	if p, ok := fe.Properties["first_name"]; !ok || p.Type != "string" {
		t.Fatalf("find-email first_name property = %+v", p)
	}

	ds := byName[ToolDomainSearch].tool.InputSchema
	if len(ds.Required) != 0 {
		t.Fatalf("domain-search must not declare required fields, got %v", ds.Required)
	}
	if p, ok := ds.Properties["limit"]; !ok || p.Type != "number" {
		t.Fatalf("domain-search limit property = %+v", p)
	}
}
