package transformer

import (
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

// mathNames lists Math functions whose C# spelling is not the PascalCase of
// the source name.
var mathNames = map[string]string{
	"trunc": "Truncate",
	"log":   "Log",
	"log10": "Log10",
	"atan2": "Atan2",
}

// bridgeCall lowers calls of global runtime functions: registry entries
// such as console.log, the Math library and the number/string conversions.
func (ft *fileTransformer) bridgeCall(name string, x *tsast.Call) (csast.Expr, bool) {
	if info, ok := ft.reg.Call(name); ok {
		ft.use(info.Namespace)
		return &csast.Call{Fun: csast.Sel(info.Receiver, info.Method), Args: ft.transformArgs(x.Args, nil)}, true
	}

	args := ft.transformArgs(x.Args, nil)
	if fn, ok := strings.CutPrefix(name, "Math."); ok {
		method, ok := mathNames[fn]
		if !ok {
			method = naming.PascalCase(fn)
		}
		return &csast.Call{Fun: &csast.Selector{X: ft.mathClass(), Name: method}, Args: args}, true
	}

	number := ft.numberType()
	switch name {
	case "parseInt":
		if len(args) > 0 {
			return &csast.Call{Fun: csast.Sel("int", "Parse"), Args: args[:1]}, true
		}
	case "parseFloat":
		return &csast.Call{Fun: &csast.Selector{X: &csast.TypeRef{Type: number}, Name: "Parse"}, Args: args}, true
	case "isNaN":
		return &csast.Call{Fun: &csast.Selector{X: &csast.TypeRef{Type: number}, Name: "IsNaN"}, Args: args}, true
	case "isFinite":
		return &csast.Call{Fun: &csast.Selector{X: &csast.TypeRef{Type: number}, Name: "IsFinite"}, Args: args}, true
	case "Number":
		if len(args) == 1 {
			ft.use("System")
			method := "ToSingle"
			if ft.cfg.NumericWidth() == transpiler.Width64 {
				method = "ToDouble"
			}
			return &csast.Call{Fun: csast.Sel("Convert", method), Args: args}, true
		}
	case "String":
		if len(args) == 1 {
			return ft.call(args[0], "ToString"), true
		}
	case "Boolean":
		if len(x.Args) == 1 {
			return ft.condition(x.Args[0]), true
		}
	case "Array.isArray":
		if len(args) == 1 {
			ft.use("System")
			return &csast.Is{X: args[0], Type: csast.NamedType{Namespace: "System", Name: "Array"}}, true
		}
	case "Object.keys", "Object.values":
		if len(args) == 1 {
			member := "Keys"
			if name == "Object.values" {
				member = "Values"
			}
			return &csast.Selector{X: args[0], Name: member}, true
		}
	case "Date.now":
		ft.use("System")
		return ft.call(csast.Sel("DateTimeOffset", "UtcNow"), "ToUnixTimeMilliseconds"), true
	}
	return nil, false
}

// bridgeMember lowers constants of the runtime library.
func (ft *fileTransformer) bridgeMember(name string) (csast.Expr, bool) {
	wide := ft.cfg.NumericWidth() == transpiler.Width64
	number := &csast.TypeRef{Type: ft.numberType()}
	switch name {
	case "Math.PI":
		if wide {
			return &csast.Selector{X: ft.mathClass(), Name: "PI"}, true
		}
		return &csast.Selector{X: ft.mathClass(), Name: "Pi"}, true
	case "Math.E":
		return &csast.Selector{X: ft.mathClass(), Name: "E"}, true
	case "Number.MAX_VALUE":
		return &csast.Selector{X: number, Name: "MaxValue"}, true
	case "Number.MIN_VALUE", "Number.EPSILON":
		return &csast.Selector{X: number, Name: "Epsilon"}, true
	case "Number.POSITIVE_INFINITY":
		return &csast.Selector{X: number, Name: "PositiveInfinity"}, true
	case "Number.NEGATIVE_INFINITY":
		return &csast.Selector{X: number, Name: "NegativeInfinity"}, true
	case "Number.NaN":
		return &csast.Selector{X: number, Name: "NaN"}, true
	case "Number.MAX_SAFE_INTEGER":
		return &csast.Literal{Text: "9007199254740991L"}, true
	case "Number.MIN_SAFE_INTEGER":
		return &csast.Literal{Text: "-9007199254740991L"}, true
	}
	return nil, false
}
