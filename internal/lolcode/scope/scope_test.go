package scope

import (
	"strings"
	"testing"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/lolcode/value"
)

func TestNew_ImplicitBinding(t *testing.T) {
	e := New()
	if !e.Contains(ImplicitName) {
		t.Fatal("root scope must contain IT")
	}
	_, err := e.Lookup(ImplicitName)
	if !mdwerror.HasCode(err, mdwerror.CodeUninitializedVariable) {
		t.Errorf("Lookup(IT) error = %v, want uninitialized", err)
	}
}

func TestLookup_Errors(t *testing.T) {
	e := New()
	e.Declare("x", value.Uninit())

	tests := []struct {
		name string
		code mdwerror.Code
		msg  string
	}{
		{"x", mdwerror.CodeUninitializedVariable, "Variable 'x' not initialized."},
		{"y", mdwerror.CodeUnknownVariable, "Variable 'y' unknown."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Lookup(tt.name)
			if !mdwerror.HasCode(err, tt.code) {
				t.Fatalf("Lookup() error = %v, want %v", err, tt.code)
			}
			if err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
}

// TestAssign_MutatesOwningScope checks assignment from a child updates the
// enclosing binding instead of creating a new one
func TestAssign_MutatesOwningScope(t *testing.T) {
	e := New()
	e.Declare("x", value.Int(1))

	child := e.EnterChild()
	if err := e.Assign("x", value.Int(2)); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := e.Release(child); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	v, err := e.Lookup("x")
	if err != nil || v.AsInt() != 2 {
		t.Errorf("x = %v, %v; want 2", v, err)
	}
}

func TestDeclare_DoesNotLeak(t *testing.T) {
	e := New()
	child := e.EnterChild()
	e.Declare("y", value.Str("inner"))
	if err := e.Release(child); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Lookup("y"); !mdwerror.HasCode(err, mdwerror.CodeUnknownVariable) {
		t.Errorf("Lookup(y) error = %v, want unknown variable", err)
	}
}

func TestDeclare_Shadowing(t *testing.T) {
	e := New()
	e.Declare("x", value.Int(1))

	child := e.EnterChild()
	e.Declare("x", value.Int(10))
	if v, _ := e.Lookup("x"); v.AsInt() != 10 {
		t.Errorf("inner x = %v, want 10", v)
	}
	e.Release(child)

	if v, _ := e.Lookup("x"); v.AsInt() != 1 {
		t.Errorf("outer x = %v, want 1", v)
	}
}

func TestAssign_Unknown(t *testing.T) {
	e := New()
	err := e.Assign("ghost", value.Int(1))
	if !mdwerror.HasCode(err, mdwerror.CodeUnknownVariable) {
		t.Errorf("Assign() error = %v", err)
	}
	if e.Contains("ghost") {
		t.Error("failed assignment must not create a binding")
	}
}

func TestRelease_Discipline(t *testing.T) {
	e := New()
	if err := e.Release(0); err == nil {
		t.Error("releasing the root must fail")
	}

	outer := e.EnterChild()
	inner := e.EnterChild()
	if e.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", e.Depth())
	}
	if err := e.Release(outer); err == nil {
		t.Error("releasing a non-innermost scope must fail")
	}
	if err := e.Release(inner); err != nil {
		t.Fatal(err)
	}
	if err := e.Release(outer); err != nil {
		t.Fatal(err)
	}
	if e.Current() != 0 {
		t.Errorf("Current() = %d, want root", e.Current())
	}
}

func TestGlobals_Order(t *testing.T) {
	e := New()
	e.Declare("b", value.Int(2))
	e.Declare("a", value.Bool(true))
	e.Declare("b", value.Int(3))

	got := e.Globals()
	names := []string{}
	for _, g := range got {
		names = append(names, g.Name)
	}
	if strings.Join(names, ",") != "IT,b,a" {
		t.Errorf("Globals() order = %v", names)
	}
	if got[1].Value.AsInt() != 3 {
		t.Errorf("b = %v, want 3", got[1].Value)
	}

	var buf strings.Builder
	if err := WriteTable(&buf, got); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a                   TROOF     WIN") {
		t.Errorf("table = %q", buf.String())
	}
}
