package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "binding cycle",
			code:    "E101",
			wantMsg: "Binding cycle detected",
			wantCat: CategoryBinding,
		},
		{
			name:    "model index",
			code:    "E102",
			wantMsg: "Model index out of range",
			wantCat: CategoryModel,
		},
		{
			name:    "malformed tree",
			code:    "E103",
			wantMsg: "Malformed item tree",
			wantCat: CategoryTree,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryScene, "item %q not found", "button")
	if err.Message != `item "button" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryScene {
		t.Errorf("Category = %q, want %q", err.Category, CategoryScene)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E101")
	if got, want := err.Error(), "E101: Binding cycle detected"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("E103").WithDetail("node 4: child range [5, 9) exceeds 7 nodes")
	if got, want := err.Error(), "E103: Malformed item tree (node 4: child range [5, 9) exceeds 7 nodes)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_IsComparesCodes(t *testing.T) {
	err := fmt.Errorf("evaluating width: %w", New("E101").WithDetail("property 7"))

	if !stderrors.Is(err, New("E101")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E102")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(err, &Error{Message: "no code"}) {
		t.Error("errors.Is should not match an uncoded target")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := &testError{msg: "disk on fire"}
	err := New("E120").Wrap(inner)

	if err.Unwrap() != inner {
		t.Error("Unwrap should return the wrapped error")
	}
	var te *testError
	if !stderrors.As(err, &te) {
		t.Error("errors.As should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E120") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E106")
	if FromError(orig, "E120") != orig {
		t.Error("FromError should return structured errors unchanged")
	}

	wrapped := FromError(&testError{msg: "boom"}, "E107")
	if wrapped.Code != "E107" {
		t.Errorf("Code = %q, want E107", wrapped.Code)
	}
	if wrapped.Wrapped == nil || wrapped.Wrapped.Error() != "boom" {
		t.Error("FromError should wrap the original error")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "with column", loc: &Location{File: "demo.yaml", Line: 10, Column: 5}, want: "demo.yaml:10:5"},
		{name: "without column", loc: &Location{File: "demo.yaml", Line: 10}, want: "demo.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "demo.yaml")
	content := `name: demo
root:
  kind: Rectangle
  props:
    width: [1, 2]
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E106").
		WithLocation(tmpFile, 5, 12).
		WithDetail("width: expected a number").
		WithSuggestion("use a number or a {ref: ...} mapping")

	formatted := err.Format()

	for _, want := range []string{"E106", "Invalid scene document", tmpFile, "width: [1, 2]", "Hint:", "expected a number"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format should contain %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E106").WithLocation("demo.yaml", 10, 5)

	want := "demo.yaml:10:5: E106: Invalid scene document"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E101").WithLocation("demo.yaml", 10, 5).Wrap(&testError{msg: "inner"})
	json := err.FormatJSON()

	for _, want := range []string{`"code":"E101"`, `"category":"binding"`, `"message":"Binding cycle detected"`, `"location":`, `"cause":"inner"`} {
		if !strings.Contains(json, want) {
			t.Errorf("JSON should contain %s: %s", want, json)
		}
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	if codes[0] != "E101" {
		t.Errorf("codes should be sorted, first = %q", codes[0])
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E102")
	if !ok {
		t.Fatal("E102 should exist")
	}
	if template.Message != "Model index out of range" {
		t.Error("Template message mismatch")
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryItem,
		Message:  "Custom test error",
		Explain:  "This is a test error",
	})
	defer delete(registry, "E999")

	err := New("E999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	defer EnableColors()
	if red("test") != "test" {
		t.Error("red should return plain text when colors disabled")
	}
}

func TestFormatNumbersContextLines(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "lines.yaml")
	var content strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&content, "line%d\n", i)
	}
	if err := os.WriteFile(tmpFile, []byte(content.String()), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E106").WithLocation(tmpFile, 10, 1)
	if len(err.Context) != contextLines {
		t.Fatalf("Context has %d lines, want %d", len(err.Context), contextLines)
	}
	if err.Context[contextLines/2] != "line10" {
		t.Errorf("middle context line = %q, want line10", err.Context[contextLines/2])
	}

	formatted := err.Format()
	if !strings.Contains(formatted, "→   10 │ line10") {
		t.Errorf("Format() should mark line 10:\n%s", formatted)
	}
	if !strings.Contains(formatted, "     8 │ line8") {
		t.Errorf("Format() should number the first context line 8:\n%s", formatted)
	}
}
