package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func echoTool(name string) Tool {
	return NewTool(name, "echoes params", nil, func(ctx context.Context, params map[string]any) (any, error) {
		return params, nil
	})
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatal(err)
	}
	if !r.Has("echo") {
		t.Error("registered tool not found")
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 tool, got %d", r.Count())
	}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(echoTool("echo")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryRegisterEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("")); err == nil {
		t.Error("expected empty name to fail")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatal(err)
		}
	}
	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestInvokeSuccess(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatal(err)
	}

	result := r.Invoke(context.Background(), "echo", map[string]any{"k": "v"})
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	data, ok := result.Data.(map[string]any)
	if !ok || data["k"] != "v" {
		t.Errorf("unexpected data: %v", result.Data)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	r := NewRegistry()
	result := r.Invoke(context.Background(), "missing", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "tool not found") {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestInvokeValidationFailure(t *testing.T) {
	r := NewRegistry()
	schema := ObjectSchema(map[string]*PropertySchema{
		"path": StringProperty("a path"),
	}, []string{"path"})
	tool := NewTool("strict", "requires path", schema, func(ctx context.Context, params map[string]any) (any, error) {
		return nil, nil
	})
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	result := r.Invoke(context.Background(), "strict", map[string]any{})
	if result.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(result.Error, "missing required parameter") {
		t.Errorf("unexpected error: %q", result.Error)
	}

	// Wrong type for a declared property.
	result = r.Invoke(context.Background(), "strict", map[string]any{"path": 42})
	if result.Success {
		t.Fatal("expected type failure")
	}
}

func TestInvokeExecutionError(t *testing.T) {
	r := NewRegistry()
	tool := NewTool("boom", "always fails", nil, func(ctx context.Context, params map[string]any) (any, error) {
		return nil, fmt.Errorf("disk on fire")
	})
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	result := r.Invoke(context.Background(), "boom", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error != "disk on fire" {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	r := NewRegistry()
	tool := NewTool("panic", "panics", nil, func(ctx context.Context, params map[string]any) (any, error) {
		panic("unexpected state")
	})
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	result := r.Invoke(context.Background(), "panic", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "panic") {
		t.Errorf("panic should surface as a failed result, got %q", result.Error)
	}
}

func TestValidateParamsEnum(t *testing.T) {
	schema := ObjectSchema(map[string]*PropertySchema{
		"format": EnumProperty("output format", []string{"markdown", "text"}),
	}, nil)

	if err := ValidateParams(schema, map[string]any{"format": "markdown"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateParams(schema, map[string]any{"format": "xml"}); err == nil {
		t.Error("expected enum violation")
	}
}

func TestParamAccessors(t *testing.T) {
	params := map[string]any{
		"s": "text",
		"f": 3.0,
		"i": 7,
		"b": true,
	}
	if got := stringParam(params, "s", ""); got != "text" {
		t.Errorf("stringParam = %q", got)
	}
	if got := stringParam(params, "missing", "fallback"); got != "fallback" {
		t.Errorf("stringParam fallback = %q", got)
	}
	if got := intParam(params, "f", 0); got != 3 {
		t.Errorf("intParam float64 = %d", got)
	}
	if got := intParam(params, "i", 0); got != 7 {
		t.Errorf("intParam int = %d", got)
	}
	if got := boolParam(params, "b", false); !got {
		t.Error("boolParam = false")
	}
}
