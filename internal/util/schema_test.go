package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refundArgs struct {
	OrderID string   `json:"order_id" description:"order to refund"`
	Reason  string   `json:"reason" enum:"damaged,late,other"`
	Items   []item   `json:"items"`
	Note    *string  `json:"note"`
	Tags    []string `json:"tags,omitempty"`
	skipped string
}

type item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(refundArgs{})

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"order_id", "reason", "items"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Len(t, props, 5)
	assert.Equal(t, "order to refund", props["order_id"].(map[string]any)["description"])
	assert.Equal(t, []string{"damaged", "late", "other"}, props["reason"].(map[string]any)["enum"])

	items := props["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	elem := items["items"].(map[string]any)
	assert.Equal(t, "object", elem["type"])
	assert.Equal(t, []string{"sku", "quantity"}, elem["required"])
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema("nope")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParameters(t *testing.T) {
	schema := CreateSchema(refundArgs{})

	tests := []struct {
		name  string
		args  string
		field string
	}{
		{name: "valid", args: `{"order_id":"A1","reason":"late","items":[{"sku":"x","quantity":2}]}`},
		{name: "missing", args: `{"reason":"late","items":[]}`, field: "order_id"},
		{name: "wrong type", args: `{"order_id":7,"reason":"late","items":[]}`, field: "order_id"},
		{name: "enum", args: `{"order_id":"A1","reason":"bored","items":[]}`, field: "reason"},
		{name: "nested", args: `{"order_id":"A1","reason":"late","items":[{"sku":"x"}]}`, field: "items[0].quantity"},
		{name: "fractional integer", args: `{"order_id":"A1","reason":"late","items":[{"sku":"x","quantity":1.5}]}`, field: "items[0].quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.args), &args))

			err := ValidateParameters(args, schema)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateParameters_DecodedSchema(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "object",
		"properties": {
			"criteria": {
				"type": "object",
				"properties": {"c1": {"type": "string", "enum": ["true", "false"]}},
				"required": ["c1"]
			}
		},
		"required": ["criteria"]
	}`), &schema))

	assert.NoError(t, ValidateParameters(map[string]any{"criteria": map[string]any{"c1": "true"}}, schema))

	err := ValidateParameters(map[string]any{"criteria": map[string]any{"c1": "maybe"}}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "criteria.c1", verr.Field)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	out, err = RenderTemplate(`{{range $i, $c := .Criteria}}{{inc $i}}. {{$c}} {{end}}{{default "anon" .Name | upper}}`,
		map[string]any{"Criteria": []string{"polite", "brief"}})
	require.NoError(t, err)
	assert.Equal(t, "1. polite 2. brief ANON", out)

	_, err = RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}
