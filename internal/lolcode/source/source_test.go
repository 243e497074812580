package source

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("HAI"), "HAI"},
		{"utf8", []byte("VISIBLE \"größe\""), "VISIBLE \"größe\""},
		{"latin1", []byte{'"', 'g', 'r', 0xF6, 0xDF, 'e', '"'}, "\"größe\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	p, err := Read("hello.lol", strings.NewReader("HAI\r\nVISIBLE 1\r\nKTHXBYE\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"HAI", "VISIBLE 1", "KTHXBYE"}
	if !reflect.DeepEqual(p.Lines, want) {
		t.Errorf("Lines = %q, want %q", p.Lines, want)
	}
	if p.Name != "hello.lol" {
		t.Errorf("Name = %q", p.Name)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lol")
	if err := os.WriteFile(path, []byte("HAI\nKTHXBYE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "prog.lol" || len(p.Lines) != 2 {
		t.Errorf("ReadFile() = %+v", p)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.lol"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}
