package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"payout-calc/internal/errors"
)

// HCL layout:
//
//	version = "1.0"
//	rates   { flat_rate = 0.42  tds_rate = 0.001  tcs_rate = 0.10 }
//	output  { default_format = "table"  preview_rows = 10 }
//	server  { addr = ":8080"  rate_limit = 120 }
//	logging { level = "info"  format = "json" }
var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "version"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "rates"},
		{Type: "output"},
		{Type: "server"},
		{Type: "logging"},
	},
}

// blockFields maps each block's attribute names onto the config fields they set.
func blockFields(c *Config) map[string]map[string]any {
	return map[string]map[string]any{
		"rates": {
			"flat_rate": &c.Rates.FlatRate,
			"tds_rate":  &c.Rates.TDSRate,
			"tcs_rate":  &c.Rates.TCSRate,
		},
		"output": {
			"default_format": &c.Output.DefaultFormat,
			"preview_rows":   &c.Output.PreviewRows,
			"no_color":       &c.Output.NoColor,
		},
		"server": {
			"addr":                  &c.Server.Addr,
			"rate_limit":            &c.Server.RateLimit,
			"max_upload_mb":         &c.Server.MaxUploadMB,
			"max_batch_rows":        &c.Server.MaxBatchRows,
			"read_timeout_seconds":  &c.Server.ReadTimeoutSeconds,
			"write_timeout_seconds": &c.Server.WriteTimeoutSeconds,
		},
		"logging": {
			"level":       &c.Logging.Level,
			"format":      &c.Logging.Format,
			"output":      &c.Logging.Output,
			"development": &c.Logging.Development,
		},
	}
}

func decodeHCL(src []byte, path string, c *Config) error {
	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return errors.Config("parsing "+path, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return errors.Config("reading "+path, diags)
	}
	if attr, ok := content.Attributes["version"]; ok {
		if diags := assign(attr, &c.Version); diags.HasErrors() {
			return errors.Config("reading "+path, diags)
		}
	}

	fields := blockFields(c)
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return errors.Config("reading "+block.Type+" block", diags)
		}
		known := fields[block.Type]
		for name, attr := range attrs {
			dst, ok := known[name]
			if !ok {
				return errors.Config(fmt.Sprintf("%s: unknown attribute %q in %s block", attr.NameRange, name, block.Type), nil)
			}
			if diags := assign(attr, dst); diags.HasErrors() {
				return errors.Config("reading "+block.Type+" block", diags)
			}
		}
	}
	return nil
}

// assign evaluates a literal attribute and stores it in dst.
func assign(attr *hcl.Attribute, dst any) hcl.Diagnostics {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if !val.IsKnown() || val.IsNull() {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing value",
			Detail:   fmt.Sprintf("%s must be a literal value", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	if err := gocty.FromCtyValue(val, dst); err != nil {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("%s: %v", attr.Name, err),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return nil
}

func encodeHCL(c *Config) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	root.SetAttributeValue("version", cty.StringVal(c.Version))

	fields := blockFields(c)
	for _, name := range []string{"rates", "output", "server", "logging"} {
		root.AppendNewline()
		body := root.AppendNewBlock(name, nil).Body()

		attrs := make([]string, 0, len(fields[name]))
		for attr := range fields[name] {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			body.SetAttributeValue(attr, ctyValue(fields[name][attr]))
		}
	}
	return f.Bytes()
}

func ctyValue(ptr any) cty.Value {
	switch v := ptr.(type) {
	case *float64:
		return cty.NumberFloatVal(*v)
	case *int:
		return cty.NumberIntVal(int64(*v))
	case *bool:
		return cty.BoolVal(*v)
	case *string:
		return cty.StringVal(*v)
	}
	return cty.NullVal(cty.DynamicPseudoType)
}
