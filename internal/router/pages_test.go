package router

import "testing"

func TestResolvePageMountsDefaultsToAll(t *testing.T) {
	mounts, err := resolvePageMounts(nil)
	if err != nil {
		t.Fatalf("resolve all pages failed: %v", err)
	}
	if len(mounts) != len(pageRegistry) {
		t.Fatalf("want %d pages got %d", len(pageRegistry), len(mounts))
	}
}

func TestResolvePageMountsSubset(t *testing.T) {
	mounts, err := resolvePageMounts([]string{"menu", "cart"})
	if err != nil {
		t.Fatalf("resolve subset failed: %v", err)
	}
	if len(mounts) != 2 {
		t.Fatalf("want 2 pages got %d", len(mounts))
	}
	if mounts[0].key != "menu" || mounts[1].key != "cart" {
		t.Fatalf("subset order must follow config, got %s/%s", mounts[0].key, mounts[1].key)
	}
}

func TestResolvePageMountsUnknownKey(t *testing.T) {
	if _, err := resolvePageMounts([]string{"menu", "loyalty"}); err == nil {
		t.Fatalf("unknown page key must fail")
	}
}

func TestResolvePageMountsDeduplicates(t *testing.T) {
	mounts, err := resolvePageMounts([]string{"menu", "menu", "auth"})
	if err != nil {
		t.Fatalf("resolve with duplicates failed: %v", err)
	}
	if len(mounts) != 2 {
		t.Fatalf("duplicates must collapse, want 2 got %d", len(mounts))
	}
}
