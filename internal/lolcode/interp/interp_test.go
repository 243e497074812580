package interp

import (
	"bytes"
	"strings"
	"testing"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/lolcode/scanner"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

func tokens(src string) []token.Token {
	return scanner.New(scanner.Options{Logger: mdwlog.Discard()}).ScanString(src)
}

func runSource(src string, opts Options) (string, string, *Result) {
	var out, diag bytes.Buffer
	opts.Output = &out
	opts.Diagnostics = &diag
	opts.Logger = mdwlog.Discard()
	res := New(opts).Run(tokens(src))
	return out.String(), diag.String(), res
}

func program(lines ...string) string {
	return "HAI 1.2\n" + strings.Join(lines, "\n") + "\nKTHXBYE\n"
}

func TestRun_Output(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		words []string
		want  string
	}{
		{"hello", program(`VISIBLE "HAI WORLD"`), nil, "HAI WORLD\n"},
		{"concatenation keeps literal text", program(`VISIBLE "x=" 3 WIN 2.50`), nil, "x=3WIN2.50\n"},
		{"variable", program("I HAS A x ITZ 5", "VISIBLE x"), nil, "5\n"},
		{"int sum", program("VISIBLE SUM OF 1 AN 2"), nil, "3\n"},
		{"promoted sum", program("VISIBLE SUM OF 1 AN 2.5"), nil, "3.5\n"},
		{"nested arithmetic", program("VISIBLE PRODUKT OF SUM OF 1 AN 2 AN 4"), nil, "12\n"},
		{"int quotient", program("VISIBLE QUOSHUNT OF 7 AN 2"), nil, "3\n"},
		{"mod", program("VISIBLE MOD OF 7 AN 3"), nil, "1\n"},
		{"max promotes", program("VISIBLE BIGGR OF 3 AN 2.5"), nil, "3.0\n"},
		{"min", program("VISIBLE SMALLR OF 3 AN -1"), nil, "-1\n"},
		{"numeric string", program(`I HAS A n ITZ "41"`, "VISIBLE SUM OF n AN 1"), nil, "42\n"},
		{"implicit result", program("SUM OF 2 AN 3", "VISIBLE IT"), nil, "5\n"},
		{"equal after promotion", program("VISIBLE BOTH SAEM 3 AN 3.0"), nil, "WIN\n"},
		{"not equal", program("VISIBLE DIFFRINT 1 AN 2"), nil, "WIN\n"},
		{"text equality", program(`VISIBLE BOTH SAEM "a" AN "a"`), nil, "WIN\n"},
		{"and", program("VISIBLE BOTH OF WIN AN FAIL"), nil, "FAIL\n"},
		{"or with truthy number", program("VISIBLE EITHER OF FAIL AN 0"), nil, "WIN\n"},
		{"xor", program("VISIBLE WON OF WIN AN WIN"), nil, "FAIL\n"},
		{"not", program("VISIBLE NOT FAIL"), nil, "WIN\n"},
		{"boolean over comparison", program("VISIBLE BOTH OF BOTH SAEM 1 AN 1 AN NOT FAIL"), nil, "WIN\n"},
		{"all of", program("VISIBLE ALL OF WIN AN WIN AN 1 MKAY"), nil, "WIN\n"},
		{"any of", program("VISIBLE ANY OF FAIL AN FAIL MKAY"), nil, "FAIL\n"},
		{"assignment", program("I HAS A x ITZ 1", "x R SUM OF x AN 1", "VISIBLE x"), nil, "2\n"},
		{"declare comparison", program("I HAS A b ITZ BOTH SAEM 1 AN 1", "VISIBLE b"), nil, "WIN\n"},
		{"declare not of variable", program("I HAS A b ITZ WIN", "I HAS A c ITZ NOT b", "VISIBLE c"), nil, "FAIL\n"},
		{"assign any of", program("I HAS A b ITZ FAIL", "b R ANY OF FAIL AN WIN MKAY", "VISIBLE b"), nil, "WIN\n"},
		{"assign all of", program("I HAS A b", "b R ALL OF WIN AN DIFFRINT 1 AN 1 MKAY", "VISIBLE b"), nil, "FAIL\n"},
		{"not over all of", program("VISIBLE NOT ALL OF WIN MKAY"), nil, "FAIL\n"},
		{"boolean over n-ary", program("VISIBLE EITHER OF FAIL AN ANY OF FAIL AN WIN MKAY"), nil, "WIN\n"},
		{"assign IT", program("IT R 9", "VISIBLE IT"), nil, "9\n"},
		{"input number", program("I HAS A a", "GIMMEH a", "VISIBLE SUM OF a AN 1"), []string{"41"}, "42\n"},
		{"input text", program("I HAS A a", "GIMMEH a", "VISIBLE a"), []string{"cat"}, "cat\n"},
		{"comments", program("BTW nothing", "OBTW", "VISIBLE 1", "TLDR", "VISIBLE 2 BTW trailing"), nil, "2\n"},
		{"empty program", "HAI\nKTHXBYE", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag, res := runSource(tt.src, Options{Input: StaticWords(tt.words...)})
			if !res.Valid {
				t.Fatalf("run failed: %s", diag)
			}
			if diag != "" {
				t.Errorf("unexpected diagnostic %q", diag)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code mdwerror.Code
		diag string
		out  string
	}{
		{"empty source", "", mdwerror.CodeStructural, "Error at Line 1 : must start with HAI.", ""},
		{"missing HAI", "VISIBLE 1", mdwerror.CodeStructural, "Error at Line 1 : must start with HAI.", ""},
		{"missing KTHXBYE", "HAI\nVISIBLE 1", mdwerror.CodeStructural, "Error at Line 2 : must end with KTHXBYE.", "1\n"},
		{"tokens after KTHXBYE", "HAI\nKTHXBYE\nVISIBLE 1", mdwerror.CodeStructural, "Error at Line 3 : unexpected 'VISIBLE' after KTHXBYE.", ""},
		{"division by zero", program("VISIBLE QUOSHUNT OF 4 AN 0"), mdwerror.CodeDivisionByZero, "Error at Line 2 : Zero Division.", ""},
		{"float mod by zero", program("VISIBLE MOD OF 4.5 AN 0"), mdwerror.CodeDivisionByZero, "Error at Line 2 : Zero Division.", ""},
		{"missing separator", program("VISIBLE SUM OF 1 2"), mdwerror.CodeMissingSeparator, "Error at Line 2 : separator AN not found.", ""},
		{"missing n-ary operand", program("VISIBLE ALL OF WIN AN MKAY"), mdwerror.CodeMissingOperand, "Error at Line 2 : expecting an operand before MKAY.", ""},
		{"empty n-ary", program("VISIBLE ANY OF MKAY"), mdwerror.CodeMissingOperand, "Error at Line 2 : expecting an operand before MKAY.", ""},
		{"nested n-ary", program("VISIBLE ALL OF ANY OF WIN MKAY AN WIN MKAY"), mdwerror.CodeIllegalNesting, "Error at Line 2 : 'ANY OF' cannot be nested inside ALL OF or ANY OF.", ""},
		{"n-ary nested through boolean", program("VISIBLE ALL OF BOTH OF WIN AN ANY OF WIN MKAY AN WIN MKAY"), mdwerror.CodeIllegalNesting, "Error at Line 2 : 'ANY OF' cannot be nested inside ALL OF or ANY OF.", ""},
		{"n-ary nested in declaration", program("I HAS A b ITZ ANY OF ALL OF WIN MKAY MKAY"), mdwerror.CodeIllegalNesting, "Error at Line 2 : 'ALL OF' cannot be nested inside ALL OF or ANY OF.", ""},
		{"missing operand in assignment", program("I HAS A b ITZ WIN", "b R ALL OF MKAY"), mdwerror.CodeMissingOperand, "Error at Line 3 : expecting an operand before MKAY.", ""},
		{"comparison inside arithmetic", program("VISIBLE SUM OF BOTH SAEM 1 AN 1 AN 2"), mdwerror.CodeUnrecognizedOperand, "Error at Line 2 : 'BOTH SAEM' is not a valid operand.", ""},
		{"text arithmetic", program(`VISIBLE SUM OF "cat" AN 1`), mdwerror.CodeTypeMismatch, "Error at Line 2 : invalid datatype.", ""},
		{"assign undeclared", program("x R 5"), mdwerror.CodeUnknownVariable, "Error at Line 2 : Variable 'x' undeclared.", ""},
		{"print unknown", program("VISIBLE x"), mdwerror.CodeUnknownVariable, "Error at Line 2 : Variable 'x' unknown.", ""},
		{"print uninitialized", program("I HAS A x", "VISIBLE x"), mdwerror.CodeUninitializedVariable, "Error at Line 3 : Variable 'x' not initialized.", ""},
		{"condition on uninitialized IT", program("O RLY?", "YA RLY", "OIC"), mdwerror.CodeUninitializedVariable, "Error at Line 2 : Variable 'IT' not initialized.", ""},
		{"declare without name", program("I HAS A", "VISIBLE 1"), mdwerror.CodeStructural, "Error at Line 2 : expecting a variable identifier.", ""},
		{"declare without value", program("I HAS A x ITZ", "VISIBLE 1"), mdwerror.CodeStructural, "Error at Line 2 : expecting a value for declared variable.", ""},
		{"print without value", program("VISIBLE", "VISIBLE 1"), mdwerror.CodeStructural, "Error at Line 2 : expecting a value to print.", ""},
		{"unterminated string in print", program(`VISIBLE "abc`), mdwerror.CodeUnrecognizedStatement, `Error at Line 2 : unrecognized token '"abc'.`, ""},
		{"unterminated string in declaration", program(`I HAS A s ITZ "abc`), mdwerror.CodeUnrecognizedStatement, `Error at Line 2 : unrecognized token '"abc'.`, ""},
		{"unknown word", program("VISIBLE 1", "@@", "VISIBLE 2"), mdwerror.CodeUnrecognizedStatement, "Error at Line 3 : unrecognized token '@@'.", "1\n"},
		{"unsupported keyword", program("WTF?"), mdwerror.CodeUnrecognizedStatement, "Error at Line 2 : 'WTF?' is not a valid statement.", ""},
		{"bare literal", program("42"), mdwerror.CodeUnrecognizedStatement, "Error at Line 2 : '42' is not a valid statement.", ""},
		{"input exhausted", program("I HAS A a", "GIMMEH a"), mdwerror.CodeInputError, "Error at Line 3 : Input Error.", ""},
		{"input undeclared", program("GIMMEH a"), mdwerror.CodeUnknownVariable, "Error at Line 2 : Variable 'a' undeclared.", ""},
		{
			"unterminated skipped branch",
			program("BOTH SAEM 1 AN 2", "O RLY?", "YA RLY", "VISIBLE 1"),
			mdwerror.CodeUnterminatedControlFlow, "Error at Line 6 : O RLY? without OIC.", "",
		},
		{
			"unterminated taken branch",
			program("BOTH SAEM 1 AN 1", "O RLY?", "YA RLY", "VISIBLE 1"),
			mdwerror.CodeUnterminatedControlFlow, "Error at Line 6 : O RLY? without OIC.", "1\n",
		},
		{
			"missing YA RLY",
			program("BOTH SAEM 1 AN 1", "O RLY?", "VISIBLE 1", "OIC"),
			mdwerror.CodeStructural, "Error at Line 4 : expecting YA RLY.", "",
		},
		{
			"double NO WAI",
			program("BOTH SAEM 1 AN 1", "O RLY?", "YA RLY", "VISIBLE 1", "NO WAI", "VISIBLE 2", "NO WAI", "OIC"),
			mdwerror.CodeStructural, "Error at Line 8 : expecting OIC.", "1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag, res := runSource(tt.src, Options{})
			if res.Valid {
				t.Fatal("expected the pass to fail")
			}
			if res.Err.Code() != tt.code {
				t.Errorf("code = %v, want %v", res.Err.Code(), tt.code)
			}
			if diag != tt.diag+"\n" {
				t.Errorf("diagnostic = %q, want %q", diag, tt.diag)
			}
			if out != tt.out {
				t.Errorf("output = %q, want %q", out, tt.out)
			}
		})
	}
}

func TestConditional_Branches(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want string
	}{
		{"true", "BOTH SAEM 1 AN 1", "yes\n"},
		{"false", "BOTH SAEM 1 AN 2", "no\n"},
		{"non-boolean IT is true", "SUM OF 0 AN 0", "yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := program(tt.cond, "O RLY?", "YA RLY", `VISIBLE "yes"`, "NO WAI", `VISIBLE "no"`, "OIC")
			out, diag, res := runSource(src, Options{})
			if !res.Valid {
				t.Fatalf("run failed: %s", diag)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestConditional_WithoutElse(t *testing.T) {
	src := program("BOTH SAEM 1 AN 2", "O RLY?", "YA RLY", `VISIBLE "skipped"`, "OIC", `VISIBLE "after"`)
	out, diag, res := runSource(src, Options{})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "after\n" {
		t.Errorf("output = %q", out)
	}
}

// TestConditional_SkipNested checks that the markers of a nested
// conditional inside a skipped branch are not taken as the outer ones
func TestConditional_SkipNested(t *testing.T) {
	src := program(
		"BOTH SAEM 1 AN 2",
		"O RLY?",
		"YA RLY",
		"  O RLY?",
		"  YA RLY",
		`    VISIBLE "inner yes"`,
		"  NO WAI",
		`    VISIBLE "inner no"`,
		"  OIC",
		`  VISIBLE "outer yes"`,
		"NO WAI",
		`  VISIBLE "outer no"`,
		"OIC",
		`VISIBLE "done"`,
	)
	out, diag, res := runSource(src, Options{})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "outer no\ndone\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConditional_NestedTaken(t *testing.T) {
	src := program(
		"BOTH SAEM 1 AN 1",
		"O RLY?",
		"YA RLY",
		"  DIFFRINT 1 AN 1",
		"  O RLY?",
		"  YA RLY",
		`    VISIBLE "inner yes"`,
		"  NO WAI",
		`    VISIBLE "inner no"`,
		"  OIC",
		"NO WAI",
		`  VISIBLE "outer no"`,
		"OIC",
	)
	out, diag, res := runSource(src, Options{})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "inner no\n" {
		t.Errorf("output = %q", out)
	}
}

// TestScope_AssignFromBranch checks assignment inside a branch updates the
// enclosing binding and declarations stay inside the branch
func TestScope_AssignFromBranch(t *testing.T) {
	src := program(
		"I HAS A x ITZ 1",
		"BOTH SAEM 1 AN 1",
		"O RLY?",
		"YA RLY",
		"  x R 2",
		"  I HAS A y ITZ 3",
		"OIC",
		"VISIBLE x",
	)
	out, diag, res := runSource(src, Options{})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "2\n" {
		t.Errorf("output = %q, want 2", out)
	}
	for _, g := range res.Globals {
		if g.Name == "y" {
			t.Error("branch declaration leaked into the root scope")
		}
	}
}

func TestScope_BranchDeclarationDoesNotLeak(t *testing.T) {
	for _, cond := range []string{"BOTH SAEM 1 AN 1", "BOTH SAEM 1 AN 2"} {
		t.Run(cond, func(t *testing.T) {
			src := program(
				cond,
				"O RLY?",
				"YA RLY",
				"  I HAS A y ITZ 3",
				"NO WAI",
				"  I HAS A y ITZ 4",
				"OIC",
				"VISIBLE y",
			)
			_, diag, res := runSource(src, Options{})
			if res.Valid {
				t.Fatal("expected failure")
			}
			if diag != "Error at Line 9 : Variable 'y' unknown.\n" {
				t.Errorf("diagnostic = %q", diag)
			}
		})
	}
}

func TestConditional_ElseBranchScope(t *testing.T) {
	src := program(
		"I HAS A x ITZ 1",
		"I HAS A z ITZ 1",
		"BOTH SAEM 1 AN 2",
		"O RLY?",
		"YA RLY",
		"NO WAI",
		"  I HAS A x ITZ 5",
		"  z R 7",
		"  VISIBLE x",
		"OIC",
		"VISIBLE x z",
	)
	out, diag, res := runSource(src, Options{})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "5\n17\n" {
		t.Errorf("output = %q, want %q", out, "5\n17\n")
	}
}

func TestConditional_ElseBranchDepth(t *testing.T) {
	src := program(
		"BOTH SAEM 1 AN 2",
		"O RLY?",
		"YA RLY",
		"NO WAI",
		"  BOTH SAEM 1 AN 1",
		"  O RLY?",
		"  YA RLY",
		`    VISIBLE "inner"`,
		"  OIC",
		"OIC",
	)
	out, diag, res := runSource(src, Options{MaxDepth: 1})
	if !res.Valid {
		t.Fatalf("run failed: %s", diag)
	}
	if out != "inner\n" {
		t.Errorf("output = %q", out)
	}
}

// TestNary_ShortCircuit checks that operands after a decided result are
// still recognized but not evaluated
func TestNary_ShortCircuit(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"all of stops at FAIL", "ALL OF FAIL AN ghost AN QUOSHUNT OF 1 AN 0 MKAY", "FAIL\n"},
		{"any of stops at WIN", "ANY OF WIN AN ghost MKAY", "WIN\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag, res := runSource(program("VISIBLE "+tt.expr), Options{})
			if !res.Valid {
				t.Fatalf("run failed: %s", diag)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}

			out, diag, res = runSource(program("I HAS A r ITZ "+tt.expr, "VISIBLE r"), Options{})
			if !res.Valid {
				t.Fatalf("declaration run failed: %s", diag)
			}
			if out != tt.want {
				t.Errorf("declared output = %q, want %q", out, tt.want)
			}
		})
	}

	// grammar is still checked after the result is decided
	_, _, res := runSource(program("VISIBLE ALL OF FAIL AN SUM OF 1 2 MKAY"), Options{})
	if res.Valid || res.Err.Code() != mdwerror.CodeMissingSeparator {
		t.Errorf("expected missing separator, got %+v", res.Err)
	}
}

// TestRun_FirstErrorWins checks only the earliest error is reported
func TestRun_FirstErrorWins(t *testing.T) {
	out, diag, res := runSource(program("VISIBLE 1", "VISIBLE x", "VISIBLE y"), Options{})
	if res.Valid {
		t.Fatal("expected failure")
	}
	if strings.Count(diag, "Error at Line") != 1 {
		t.Errorf("expected exactly one diagnostic, got %q", diag)
	}
	if !strings.HasPrefix(diag, "Error at Line 3 :") {
		t.Errorf("diagnostic = %q", diag)
	}
	if out != "1\n" {
		t.Errorf("output before the error must remain, got %q", out)
	}
	if res.Verdict() != "The program is not valid" {
		t.Errorf("Verdict() = %q", res.Verdict())
	}
}

func TestLatch_KeepsFirst(t *testing.T) {
	var l latch
	if l.first() != nil {
		t.Fatal("new latch must be empty")
	}

	first := mdwerror.New("first").WithLine(2)
	second := mdwerror.New("second").WithLine(5)
	if !l.set(first) {
		t.Error("set() on an empty latch should store the error")
	}
	if l.set(second) {
		t.Error("set() on a full latch should report false")
	}
	if l.first() != first {
		t.Errorf("first() = %v, want the first error", l.first())
	}
}

func TestRun_DepthLimit(t *testing.T) {
	src := program(
		"BOTH SAEM 1 AN 1",
		"O RLY?",
		"YA RLY",
		"  O RLY?",
		"  YA RLY",
		`    VISIBLE "deep"`,
		"  OIC",
		"OIC",
	)

	_, _, res := runSource(src, Options{MaxDepth: 1})
	if res.Valid || res.Err.Code() != mdwerror.CodeNestingTooDeep {
		t.Fatalf("expected nesting error, got %+v", res.Err)
	}
	if res.Err.Line() != 6 {
		t.Errorf("line = %d, want 6", res.Err.Line())
	}

	out, _, res := runSource(src, Options{MaxDepth: -1})
	if !res.Valid || out != "deep\n" {
		t.Errorf("unlimited depth: valid=%v out=%q", res.Valid, out)
	}
}

// TestRun_Deterministic checks two fresh runs over the same tokens and
// input produce the same output and globals
func TestRun_Deterministic(t *testing.T) {
	src := program("I HAS A a", "GIMMEH a", "I HAS A b ITZ PRODUKT OF a AN 2", "VISIBLE a b", "BOTH SAEM b AN 42")
	toks := tokens(src)

	render := func() (string, []scope.Entry) {
		var out bytes.Buffer
		res := New(Options{Output: &out, Input: StaticWords("21"), Logger: mdwlog.Discard()}).Run(toks)
		if !res.Valid {
			t.Fatalf("run failed: %v", res.Err)
		}
		return out.String(), scope.Entries(res.Globals)
	}

	out1, g1 := render()
	out2, g2 := render()
	if out1 != out2 || out1 != "2142\n" {
		t.Errorf("outputs differ or wrong: %q vs %q", out1, out2)
	}
	if len(g1) != len(g2) {
		t.Fatalf("globals differ: %v vs %v", g1, g2)
	}
	for i := range g1 {
		if g1[i] != g2[i] {
			t.Errorf("global %d differs: %v vs %v", i, g1[i], g2[i])
		}
	}
	if g1[0].Name != "IT" || g1[0].Value != "WIN" {
		t.Errorf("IT = %+v, want WIN", g1[0])
	}
}

func TestRun_Reusable(t *testing.T) {
	in := New(Options{Logger: mdwlog.Discard()})
	first := in.Run(tokens(program("I HAS A x ITZ 1")))
	second := in.Run(tokens(program("VISIBLE x")))
	if !first.Valid {
		t.Fatal("first run should be valid")
	}
	if second.Valid {
		t.Error("variables must not survive between runs")
	}
}

func TestInputSources(t *testing.T) {
	src := NewReaderSource(strings.NewReader("  one\ttwo\nthree "))
	for _, want := range []string{"one", "two", "three"} {
		got, err := src.NextWord()
		if err != nil || got != want {
			t.Fatalf("NextWord() = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := src.NextWord(); err == nil {
		t.Error("expected EOF after the last word")
	}

	var echo bytes.Buffer
	e := EchoSource(StaticWords("x"), &echo)
	if w, _ := e.NextWord(); w != "x" || echo.String() != "x\n" {
		t.Errorf("echo = %q, word = %q", echo.String(), w)
	}

	rec := RecordSource(StaticWords("a", "b"))
	rec.NextWord()
	rec.NextWord()
	if _, err := rec.NextWord(); err == nil {
		t.Error("expected EOF from the wrapped source")
	}
	if got := rec.Words(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Words() = %q", got)
	}
}
