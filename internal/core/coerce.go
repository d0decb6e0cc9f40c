package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"marbl-settings/internal/shared"
	"marbl-settings/internal/types"
)

var (
	fortranExponent = regexp.MustCompile(`([0-9.])[dD]([+-]?[0-9])`)
	trailingDot     = regexp.MustCompile(`([0-9])\.([^0-9]|$)`)
	leadingDot      = regexp.MustCompile(`(^|[^0-9])\.([0-9])`)
)

// CoerceValue converts a raw default or override into the canonical value
// stored in the Resolved Parameter Set: quoted strings, int64 integers,
// booleans, and reals rendered in fixed scientific notation.
func CoerceValue(name string, datatype types.Datatype, raw any) (any, error) {
	switch datatype {
	case types.DatatypeString:
		if text, ok := raw.(string); ok {
			return shared.Quote(shared.Unquote(text)), nil
		}
		return shared.Quote(fmt.Sprint(raw)), nil
	case types.DatatypeReal:
		value, err := realValue(raw)
		if err != nil {
			return nil, types.TypeCoercionError(name, datatype, fmt.Sprint(raw), err)
		}
		return types.FormatReal(value), nil
	case types.DatatypeInteger:
		value, err := integerFromRaw(raw)
		if err != nil {
			return nil, types.TypeCoercionError(name, datatype, fmt.Sprint(raw), err)
		}
		return value, nil
	case types.DatatypeLogical:
		value, err := logicalValue(raw)
		if err != nil {
			return nil, types.TypeCoercionError(name, datatype, fmt.Sprint(raw), err)
		}
		return value, nil
	default:
		return nil, types.SchemaErrorf("variable %s has invalid datatype %q", name, datatype)
	}
}

func realValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return EvaluateReal(v)
	default:
		return 0, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// EvaluateReal evaluates a constant numeric expression such as "1.0/3.0"
// or "2.5d-3". Variables and function calls are rejected.
func EvaluateReal(text string) (float64, error) {
	source := strings.TrimSpace(shared.Unquote(text))
	if source == "" {
		return 0, fmt.Errorf("empty expression")
	}
	source = fortranExponent.ReplaceAllString(source, "${1}e${2}")
	source = trailingDot.ReplaceAllString(source, "${1}.0${2}")
	source = leadingDot.ReplaceAllString(source, "${1}0.${2}")

	expr, diags := hclsyntax.ParseExpression([]byte(source), "value", hcl.InitialPos)
	if diags.HasErrors() {
		return 0, diags
	}
	if len(expr.Variables()) > 0 {
		return 0, fmt.Errorf("expression %q refers to variables", text)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("expression %q is not a number", text)
	}
	result, _ := val.AsBigFloat().Float64()
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("expression %q is out of range", text)
	}
	return result, nil
}

func integerFromRaw(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(shared.Unquote(v)), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func logicalValue(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(shared.Unquote(v))) {
		case ".true.", "true", "t", ".t.":
			return true, nil
		case ".false.", "false", "f", ".f.":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a logical", v)
	default:
		return false, fmt.Errorf("unsupported value of type %T", raw)
	}
}
