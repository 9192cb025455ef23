// Package placeholder substitutes {{namespace.field}} tokens in template
// content with values from a render context. Resolution is total and
// idempotent: missing data becomes an empty string, unknown tokens pass
// through verbatim, and token-free text is left untouched.
package placeholder

import (
	"fmt"
	"strings"
)

// Section is one named bag of values in the render context.
type Section map[string]interface{}

// RenderContext carries the data placeholders resolve against.
type RenderContext struct {
	Employee   Section
	Department Section
	Position   Section
	Company    Section
	System     Section
}

func (c RenderContext) section(name string) Section {
	switch name {
	case "employee":
		return c.Employee
	case "department":
		return c.Department
	case "position":
		return c.Position
	case "company":
		return c.Company
	case "system":
		return c.System
	default:
		return nil
	}
}

// lookupPath walks a dotted path into the context. Any missing step yields "".
func (c RenderContext) lookupPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return ""
	}
	cur := c.section(parts[0])
	for i := 1; i < len(parts); i++ {
		if cur == nil {
			return ""
		}
		v, ok := cur[parts[i]]
		if !ok || v == nil {
			return ""
		}
		if i == len(parts)-1 {
			return stringify(v)
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = Section(next)
	}
	return ""
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// customKey builds the token for a template-defined custom field.
func customKey(key string) string {
	return "{{custom." + key + "}}"
}

// BuildValues computes the flat token-to-value map for one render. Dictionary
// fields resolve by path walk, virtual fields are computed, custom fields by
// direct key lookup.
func BuildValues(ctx RenderContext, customInputs map[string]string) map[string]string {
	values := make(map[string]string, len(Fields)+len(customInputs))

	for _, f := range Fields {
		if f.Key == "{{employee.fullName}}" {
			first := ctx.lookupPath("employee.firstName")
			last := ctx.lookupPath("employee.lastName")
			values[f.Key] = strings.TrimSpace(first + " " + last)
			continue
		}
		values[f.Key] = ctx.lookupPath(f.Path)
	}

	for key, val := range customInputs {
		values[customKey(key)] = val
	}

	return values
}

// Resolve replaces every occurrence of every known token in content. Tokens
// not present in values pass through verbatim so unresolved or custom tokens
// degrade gracefully instead of corrupting output.
func Resolve(content string, values map[string]string) string {
	if content == "" || len(values) == 0 {
		return content
	}
	pairs := make([]string, 0, len(values)*2)
	for token, val := range values {
		pairs = append(pairs, token, val)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// Render is the full pipeline used by preview and print: substitution, then
// newline normalization.
func Render(content string, ctx RenderContext, customInputs map[string]string) string {
	return NormalizeNewlines(Resolve(content, BuildValues(ctx, customInputs)))
}

// NormalizeNewlines converts literal \n sequences into line breaks. This is a
// render-time concern separate from token substitution.
func NormalizeNewlines(content string) string {
	return strings.ReplaceAll(content, `\n`, "\n")
}

// InsertAt inserts a field at the cursor position pos of content. The
// resolved value is inserted when available; otherwise the literal token, so
// authoring against an empty context still produces re-resolvable content.
// It returns the new content and the advanced cursor position.
func InsertAt(content string, pos int, token string, values map[string]string) (string, int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(content) {
		pos = len(content)
	}
	ins := token
	if v, ok := values[token]; ok && v != "" {
		ins = v
	}
	return content[:pos] + ins + content[pos:], pos + len(ins)
}
