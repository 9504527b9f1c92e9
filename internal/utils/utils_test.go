package utils

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"b", true},
		{"bel", true},
		{"été", true},
		{"1234", false},
		{"a1", true},
		{"@home", false},
		{"new-york", true},
		{"aaa", false},
		{"ééé", false},
		{"aa", true},
		{"\xff", false},
	}

	for _, tc := range testCases {
		if got := IsValidInput(tc.in); got != tc.want {
			t.Errorf("IsValidInput(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(0); got == nil || len(got) != 0 {
		t.Errorf("CreateRankList(0) = %#v", got)
	}
	if got := CreateRankList(3); !slices.Equal(got, []uint16{1, 2, 3}) {
		t.Errorf("CreateRankList(3) = %v", got)
	}
}

type sample struct {
	Server struct {
		MaxLimit int `toml:"max_limit"`
	} `toml:"server"`
}

func TestTOMLRoundTripAndUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	var in sample
	in.Server.MaxLimit = 12
	if err := SaveTOMLFile(&in, path); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}

	var out sample
	unknown, err := LoadTOMLFile(path, &out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Server.MaxLimit != 12 || len(unknown) != 0 {
		t.Errorf("got %+v unknown=%v", out, unknown)
	}

	if err := os.WriteFile(path, []byte("[server]\nmax_limit = 3\nmax_limt = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown, err = LoadTOMLFile(path, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(unknown, []string{"server.max_limt"}) {
		t.Errorf("unknown keys = %v", unknown)
	}
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nmax_limit = \"lots\"\nmin_prefix = 2\nenable_cache = false\n[index]\nkind = \"binary\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatal(err)
	}
	server, ok := ExtractSection(raw, "server")
	if !ok {
		t.Fatal("missing server section")
	}
	if _, ok := ExtractInt(server, "max_limit"); ok {
		t.Error("string value extracted as int")
	}
	if v, ok := ExtractInt(server, "min_prefix"); !ok || v != 2 {
		t.Errorf("min_prefix = %v, %v", v, ok)
	}
	if v, ok := ExtractBool(server, "enable_cache"); !ok || v {
		t.Errorf("enable_cache = %v, %v", v, ok)
	}
	index, _ := ExtractSection(raw, "index")
	if v, ok := ExtractString(index, "kind"); !ok || v != "binary" {
		t.Errorf("kind = %q, %v", v, ok)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(file, []byte("a\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pr := &PathResolver{executableDir: filepath.Join(dir, "bin"), workingDir: dir, configDir: filepath.Join(dir, "cfg")}
	got, err := pr.ResolveFile("words.txt")
	if err != nil || got != file {
		t.Errorf("ResolveFile(words.txt) = %q, %v", got, err)
	}
	if got, err := pr.ResolveFile(file); err != nil || got != file {
		t.Errorf("ResolveFile(abs) = %q, %v", got, err)
	}
	if _, err := pr.ResolveFile("missing.txt"); !os.IsNotExist(err) {
		t.Errorf("ResolveFile(missing) error = %v", err)
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	res := CheckDirStatus(dir)
	if !res.Exists || !res.Writable || res.Error != nil {
		t.Errorf("CheckDirStatus = %+v", res)
	}
	if FileExists(dir) {
		t.Error("FileExists reported a directory as a file")
	}
}
