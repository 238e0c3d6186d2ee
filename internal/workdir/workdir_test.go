package workdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDataDir_ExplicitWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, filepath.Join(t.TempDir(), "other"))

	got := ResolveDataDir(dir)
	assertSamePath(t, dir, got)
}

func TestResolveDataDir_UsesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	got := ResolveDataDir("")
	assertSamePath(t, dir, got)
}

func TestResolveDataDir_DefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, "")
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got := ResolveDataDir("")
	assertSamePath(t, filepath.Join(home, defaultDir), got)
}

func TestResolveRedirect_FollowsRootFile(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared")
	if err := os.WriteFile(filepath.Join(dir, rootFile), []byte(shared+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	got := ResolveRedirect(dir)
	assertSamePath(t, shared, got)
}

func TestResolveRedirect_RelativePath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, rootFile), []byte("nested/notes"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	got := ResolveRedirect(dir)
	assertSamePath(t, filepath.Join(dir, "nested", "notes"), got)
}

func TestResolveRedirect_EmptyFileIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, rootFile), []byte("  \n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	got := ResolveRedirect(dir)
	assertSamePath(t, dir, got)
}

func assertSamePath(t *testing.T, want, got string) {
	t.Helper()
	if filepath.Clean(want) != filepath.Clean(got) {
		t.Fatalf("path = %q, want %q", got, want)
	}
}
