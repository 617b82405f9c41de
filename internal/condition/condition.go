// Package condition evaluates the JSON predicate language attached to
// content rows. The language is deliberately fail-open: content problems
// must never break report generation, so anything malformed or unknown
// evaluates true and the row stays eligible.
package condition

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/todaylotto/backend/internal/domain"
)

// Context carries the scoring outcome a condition is evaluated against.
type Context struct {
	Score int
	Axes  domain.AxisVector
	Tags  domain.TagSet
}

// Expr is a parsed condition node.
type Expr interface {
	Eval(ctx Context) bool
}

type trueExpr struct{}

func (trueExpr) Eval(Context) bool { return true }

type allExpr struct{ children []Expr }

func (e allExpr) Eval(ctx Context) bool {
	for _, c := range e.children {
		if !c.Eval(ctx) {
			return false
		}
	}
	return true
}

type anyExpr struct{ children []Expr }

// An empty any-list is vacuously true; content authors use it as an
// always-on marker.
func (e anyExpr) Eval(ctx Context) bool {
	if len(e.children) == 0 {
		return true
	}
	for _, c := range e.children {
		if c.Eval(ctx) {
			return true
		}
	}
	return false
}

type axisExpr struct {
	axis  domain.Axis
	op    string
	value int
}

func (e axisExpr) Eval(ctx Context) bool {
	return compare(ctx.Axes.Get(e.axis), e.op, e.value)
}

type scoreExpr struct {
	op    string
	value int
}

func (e scoreExpr) Eval(ctx Context) bool {
	return compare(ctx.Score, e.op, e.value)
}

type tagExpr struct {
	op    string
	value string
}

func (e tagExpr) Eval(ctx Context) bool {
	has := ctx.Tags.Has(e.value)
	switch e.op {
	case "has":
		return has
	case "not":
		return !has
	default:
		return true
	}
}

func compare(actual int, op string, expected int) bool {
	switch op {
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected
	case "==":
		return actual == expected
	case "!=":
		return actual != expected
	default:
		return true
	}
}

// Matches evaluates raw condition JSON against ctx. Blank, "{}",
// unparseable, or unrecognized input is treated as always-true.
func Matches(raw string, ctx Context) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "{}" {
		return true
	}
	expr, err := Parse(trimmed)
	if err != nil {
		return true
	}
	return expr.Eval(ctx)
}

// Parse compiles condition JSON into an Expr. Unknown node shapes compile
// to always-true leaves rather than errors; only broken JSON fails.
func Parse(raw string) (Expr, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, err
	}
	return parseNode(root), nil
}

func parseNode(node map[string]any) Expr {
	if len(node) == 0 {
		return trueExpr{}
	}
	if list, ok := node["all"]; ok {
		children, valid := parseList(list)
		if !valid {
			return trueExpr{}
		}
		return allExpr{children: children}
	}
	if list, ok := node["any"]; ok {
		children, valid := parseList(list)
		if !valid {
			return trueExpr{}
		}
		return anyExpr{children: children}
	}

	typ, ok := asString(node["type"])
	if !ok {
		return trueExpr{}
	}
	switch typ {
	case "axis":
		return parseAxis(node)
	case "score":
		return parseScore(node)
	case "tag":
		return parseTag(node)
	default:
		return trueExpr{}
	}
}

func parseList(v any) ([]Expr, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	children := make([]Expr, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			children = append(children, parseNode(m))
		} else {
			children = append(children, trueExpr{})
		}
	}
	return children, true
}

func parseAxis(node map[string]any) Expr {
	name, okName := asString(node["axis"])
	op, okOp := asString(node["op"])
	value, okVal := asInt(node["value"])
	if !okName || !okOp || !okVal {
		return trueExpr{}
	}
	axis, known := domain.ParseAxis(name)
	if !known {
		return trueExpr{}
	}
	return axisExpr{axis: axis, op: op, value: value}
}

func parseScore(node map[string]any) Expr {
	op, okOp := asString(node["op"])
	value, okVal := asInt(node["value"])
	if !okOp || !okVal {
		return trueExpr{}
	}
	return scoreExpr{op: op, value: value}
}

func parseTag(node map[string]any) Expr {
	op, okOp := asString(node["op"])
	value, okVal := asString(node["value"])
	if !okOp || !okVal {
		return trueExpr{}
	}
	return tagExpr{op: op, value: value}
}

func asString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	if n, ok := v.(float64); ok {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b), true
	}
	return "", false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
