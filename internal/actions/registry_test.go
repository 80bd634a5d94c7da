package actions

import (
	"testing"

	"github.com/bedolaga/bedolaga-console/internal/rbac"
)

func TestRegistryCatalog(t *testing.T) {
	registry := NewRegistry()
	keys := []string{KeyExtendSubscription, KeyRechargeBalance, KeyBlockUser, KeySyncAccess}
	if got := len(registry.All()); got != len(keys) {
		t.Fatalf("catalog size = %d, want %d", got, len(keys))
	}
	for _, key := range keys {
		def, ok := registry.Lookup(key)
		if !ok {
			t.Fatalf("action %q missing", key)
		}
		if def.Permission == "" {
			t.Fatalf("action %q must require a permission", key)
		}
	}
	if _, ok := registry.Lookup("nope"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

func TestRegistryAllowed(t *testing.T) {
	registry := NewRegistry()
	allowed := registry.Allowed(rbac.Resolve([]string{"manager"}))
	if !allowed[KeyExtendSubscription] || !allowed[KeySyncAccess] {
		t.Fatalf("manager should reach extend and sync")
	}
	if allowed[KeyBlockUser] {
		t.Fatalf("manager must not reach block_user")
	}
}
