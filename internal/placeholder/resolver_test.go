package placeholder

import (
	"strings"
	"testing"
)

func fullContext() RenderContext {
	return RenderContext{
		Employee: Section{
			"firstName": "Болд",
			"lastName":  "Бат",
			"email":     "bold@example.mn",
			"phone":     "9911-2233",
			"hiredDate": "2023-04-01",
		},
		Department: Section{"name": "Инженерчлэл"},
		Position:   Section{"title": "Ахлах инженер"},
		Company: Section{
			"name":    "Ажил ХХК",
			"address": "Улаанбаатар",
			"phone":   "7011-0011",
		},
		System: Section{"date": "2025-10-24", "documentNo": "HR-2025-0042"},
	}
}

func TestResolveFullContextLeavesNoKnownTokens(t *testing.T) {
	var b strings.Builder
	for _, f := range Fields {
		b.WriteString(f.Key)
		b.WriteString(" ")
	}
	content := b.String()

	out := Resolve(content, BuildValues(fullContext(), nil))
	for _, f := range Fields {
		if strings.Contains(out, f.Key) {
			t.Errorf("token %s left unresolved", f.Key)
		}
	}
}

func TestResolveEmptyContextNeverFails(t *testing.T) {
	content := "Hello {{employee.firstName}}, dept {{department.name}}"

	out := Resolve(content, BuildValues(RenderContext{}, nil))
	if out != "Hello , dept " {
		t.Errorf("missing data should become empty string, got %q", out)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	content := "{{employee.fullName}} / {{company.name}} / {{date.today}}"
	values := BuildValues(fullContext(), nil)

	once := Resolve(content, values)
	twice := Resolve(once, values)
	if once != twice {
		t.Errorf("resolution not idempotent: %q vs %q", once, twice)
	}
}

func TestResolveUnknownTokenPassesThrough(t *testing.T) {
	content := "before {{made.up}} after"

	out := Resolve(content, BuildValues(fullContext(), nil))
	if !strings.Contains(out, "{{made.up}}") {
		t.Errorf("unknown token should pass through verbatim, got %q", out)
	}
}

func TestVirtualFullName(t *testing.T) {
	tests := []struct {
		name string
		ctx  RenderContext
		want string
	}{
		{"both names", fullContext(), "Болд Бат"},
		{"first only", RenderContext{Employee: Section{"firstName": "Болд"}}, "Болд"},
		{"last only", RenderContext{Employee: Section{"lastName": "Бат"}}, "Бат"},
		{"empty", RenderContext{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := BuildValues(tt.ctx, nil)
			if got := values["{{employee.fullName}}"]; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCustomInputsResolveByKey(t *testing.T) {
	values := BuildValues(RenderContext{}, map[string]string{"terminationDate": "2025-12-31"})

	out := Resolve("valid until {{custom.terminationDate}}", values)
	if out != "valid until 2025-12-31" {
		t.Errorf("custom input not resolved, got %q", out)
	}
}

func TestInsertAt(t *testing.T) {
	values := BuildValues(fullContext(), nil)

	tests := []struct {
		name     string
		content  string
		pos      int
		token    string
		wantText string
		wantPos  int
	}{
		{
			name:     "resolved value inserted",
			content:  "Dear !",
			pos:      5,
			token:    "{{employee.firstName}}",
			wantText: "Dear Болд!",
			wantPos:  5 + len("Болд"),
		},
		{
			name:     "literal token when unresolved",
			content:  "No: ",
			pos:      4,
			token:    "{{made.up}}",
			wantText: "No: {{made.up}}",
			wantPos:  4 + len("{{made.up}}"),
		},
		{
			name:     "cursor clamped to bounds",
			content:  "ab",
			pos:      99,
			token:    "{{made.up}}",
			wantText: "ab{{made.up}}",
			wantPos:  2 + len("{{made.up}}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos := InsertAt(tt.content, tt.pos, tt.token, values)
			if got != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, got)
			}
			if pos != tt.wantPos {
				t.Errorf("expected cursor %d, got %d", tt.wantPos, pos)
			}
			if tt.pos <= len(tt.content) && len(got)-len(tt.content) != pos-tt.pos {
				t.Errorf("length delta %d does not match cursor advance %d",
					len(got)-len(tt.content), pos-tt.pos)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	out := NormalizeNewlines(`line one\nline two`)
	if out != "line one\nline two" {
		t.Errorf("expected literal \\n converted, got %q", out)
	}
}

func TestRenderEndToEnd(t *testing.T) {
	ctx := RenderContext{
		Employee: Section{"firstName": "Болд"},
		System:   Section{"date": "2025-10-24"},
	}

	out := Render("Сайн байна уу, {{employee.firstName}}! Огноо: {{date.today}}", ctx, nil)
	want := "Сайн байна уу, Болд! Огноо: 2025-10-24"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFieldKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Key] {
			t.Errorf("duplicate dictionary key %s", f.Key)
		}
		seen[f.Key] = true
	}
}
