package profile

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/config"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/credential"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/keyring"
)

const testAccount = "tester"

func newTestManager(t *testing.T, cfg *config.Config, opts ...Option) (*Manager, *keyring.MockStore) {
	t.Helper()
	store := keyring.NewMockStore()
	opts = append([]Option{WithLiveAccount(testAccount)}, opts...)
	return NewManager(t.TempDir(), store, cfg, opts...), store
}

func allowOverwrite() Option {
	return WithConfirmOverwrite(func(string) (bool, error) { return true, nil })
}

func setLiveAPIKey(t *testing.T, store *keyring.MockStore, secret string) {
	t.Helper()
	if err := store.Save(testAccount, credential.ServiceLiveAPIKey, secret); err != nil {
		t.Fatalf("seeding live api key: %v", err)
	}
	if err := store.Delete(testAccount, credential.ServiceLiveOAuth); err != nil {
		t.Fatalf("clearing live oauth slot: %v", err)
	}
}

func setLiveOAuth(t *testing.T, store *keyring.MockStore, bundle string) {
	t.Helper()
	if err := store.Save(testAccount, credential.ServiceLiveOAuth, bundle); err != nil {
		t.Fatalf("seeding live oauth bundle: %v", err)
	}
	if err := store.Delete(testAccount, credential.ServiceLiveAPIKey); err != nil {
		t.Fatalf("clearing live api slot: %v", err)
	}
}

func oauthBundle(expiry time.Time) string {
	return fmt.Sprintf(`{"claudeAiOauth": {"accessToken": "tok", "expiresAt": %d}}`, expiry.UnixMilli())
}

func TestSave_NoLiveCredentials(t *testing.T) {
	m, _ := newTestManager(t, nil)

	if _, err := m.Save("work", nil); !errors.Is(err, ErrNoLiveCredentials) {
		t.Fatalf("Save = %v, want ErrNoLiveCredentials", err)
	}
}

func TestSave_NoNameNoCurrent(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")

	if _, err := m.Save("", nil); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("Save = %v, want ErrNoTarget", err)
	}
}

func TestSave_APIKey(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-work-key")

	res, err := m.Save("work", nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !res.Created {
		t.Error("expected Created for a new profile")
	}
	if res.Kind != credential.AuthKindAPIKey {
		t.Errorf("Kind = %v, want api_key", res.Kind)
	}

	secret, err := store.Get("work", credential.ServiceBackup)
	if err != nil {
		t.Fatalf("backup secret not stored: %v", err)
	}
	if secret != "sk-ant-work-key" {
		t.Errorf("stored secret = %q, want the live key", secret)
	}

	rec, err := m.Metadata().Read("work")
	if err != nil {
		t.Fatalf("record not written: %v", err)
	}
	if rec.AuthMethod != "api_key" {
		t.Errorf("AuthMethod = %q, want api_key", rec.AuthMethod)
	}
}

func TestSave_OAuthPrefersOAuthSlot(t *testing.T) {
	m, store := newTestManager(t, nil)
	// Both slots populated: the OAuth slot is the stronger signal.
	if err := store.Save(testAccount, credential.ServiceLiveAPIKey, "sk-ant-stale"); err != nil {
		t.Fatal(err)
	}
	bundle := oauthBundle(time.Now().Add(30 * 24 * time.Hour))
	if err := store.Save(testAccount, credential.ServiceLiveOAuth, bundle); err != nil {
		t.Fatal(err)
	}

	res, err := m.Save("personal", nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if res.Kind != credential.AuthKindOAuth {
		t.Errorf("Kind = %v, want oauth", res.Kind)
	}

	secret, _ := store.Get("personal", credential.ServiceBackup)
	if secret != bundle {
		t.Errorf("stored secret = %q, want the oauth bundle", secret)
	}
}

func TestSave_OverwriteDeclinedByDefault(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-old")

	if _, err := m.Save("work", nil); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	setLiveAPIKey(t, store, "sk-ant-new")
	if _, err := m.Save("work", nil); !errors.Is(err, ErrOverwriteDeclined) {
		t.Fatalf("second Save = %v, want ErrOverwriteDeclined", err)
	}

	secret, _ := store.Get("work", credential.ServiceBackup)
	if secret != "sk-ant-old" {
		t.Errorf("declined overwrite mutated the stored secret: %q", secret)
	}
}

func TestSave_OverwritePreservesCreated(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	now := t1
	m, store := newTestManager(t, nil, allowOverwrite(), WithClock(func() time.Time { return now }))
	setLiveAPIKey(t, store, "sk-ant-old")

	if _, err := m.Save("work", nil); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	now = t2
	setLiveAPIKey(t, store, "sk-ant-new")
	res, err := m.Save("work", nil)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if res.Created {
		t.Error("overwrite reported as Created")
	}

	rec, err := m.Metadata().Read("work")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Created != t1.Format(time.RFC3339) {
		t.Errorf("Created = %q, want the original timestamp", rec.Created)
	}
	if rec.LastUsed != t2.Format(time.RFC3339) {
		t.Errorf("LastUsed = %q, want the overwrite timestamp", rec.LastUsed)
	}
	secret, _ := store.Get("work", credential.ServiceBackup)
	if secret != "sk-ant-new" {
		t.Errorf("stored secret = %q, want the new key", secret)
	}
}

func TestSave_WithAliases(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")

	res, err := m.Save("work", []string{"w", "day-job"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(res.Aliases) != 2 {
		t.Fatalf("Aliases = %v, want two", res.Aliases)
	}
	if got := m.Resolve("w"); got != "work" {
		t.Errorf("Resolve(w) = %q, want work", got)
	}
	if got := m.Resolve("day-job"); got != "work" {
		t.Errorf("Resolve(day-job) = %q, want work", got)
	}
}

func TestSave_RejectsBadNames(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")

	if _, err := m.Save("current", nil); err == nil {
		t.Error("reserved name accepted")
	}
	if _, err := m.Save("ok", []string{"bad name"}); err == nil {
		t.Error("invalid alias accepted")
	}
}

func TestSwitch_RoundTrip(t *testing.T) {
	m, store := newTestManager(t, nil)

	setLiveAPIKey(t, store, "sk-ant-work-key")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatalf("saving work: %v", err)
	}

	bundle := oauthBundle(time.Now().Add(30 * 24 * time.Hour))
	setLiveOAuth(t, store, bundle)
	if _, err := m.Save("personal", nil); err != nil {
		t.Fatalf("saving personal: %v", err)
	}

	res, err := m.Switch("work")
	if err != nil {
		t.Fatalf("Switch(work) failed: %v", err)
	}
	if res.Kind != credential.AuthKindAPIKey {
		t.Errorf("Kind = %v, want api_key", res.Kind)
	}

	if secret, err := store.Get(testAccount, credential.ServiceLiveAPIKey); err != nil || secret != "sk-ant-work-key" {
		t.Errorf("live api slot = %q, %v; want the saved key", secret, err)
	}
	if _, err := store.Get(testAccount, credential.ServiceLiveOAuth); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("live oauth slot not cleared: %v", err)
	}
	if got := m.Metadata().Current(); got != "work" {
		t.Errorf("current = %q, want work", got)
	}

	res, err = m.Switch("personal")
	if err != nil {
		t.Fatalf("Switch(personal) failed: %v", err)
	}
	if res.Kind != credential.AuthKindOAuth {
		t.Errorf("Kind = %v, want oauth", res.Kind)
	}
	if res.Health == "" {
		t.Error("oauth switch reported no health")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	if secret, err := store.Get(testAccount, credential.ServiceLiveOAuth); err != nil || secret != bundle {
		t.Errorf("live oauth slot = %q, %v; want the saved bundle", secret, err)
	}
	if _, err := store.Get(testAccount, credential.ServiceLiveAPIKey); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("live api slot not cleared: %v", err)
	}
	if got := m.Metadata().Current(); got != "personal" {
		t.Errorf("current = %q, want personal", got)
	}
}

func TestSwitch_NotFound(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Switch("work"); err != nil {
		t.Fatal(err)
	}

	_, err := m.Switch("nope")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Switch = %v, want ErrProfileNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
	if got := m.Metadata().Current(); got != "work" {
		t.Errorf("failed switch moved the current pointer to %q", got)
	}
}

func TestSwitch_ViaAlias(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")
	if _, err := m.Save("work", []string{"w"}); err != nil {
		t.Fatal(err)
	}

	res, err := m.Switch("w")
	if err != nil {
		t.Fatalf("Switch via alias failed: %v", err)
	}
	if res.Name != "work" {
		t.Errorf("resolved name = %q, want work", res.Name)
	}
}

func TestSwitch_MissingSecret(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("work", credential.ServiceBackup); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Switch("work"); !errors.Is(err, ErrSecretUnretrievable) {
		t.Fatalf("Switch = %v, want ErrSecretUnretrievable", err)
	}
}

func TestSwitch_ExpiredTokenWarns(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m, store := newTestManager(t, nil, WithClock(func() time.Time { return now }))

	setLiveOAuth(t, store, oauthBundle(now.Add(-2*time.Hour)))
	if _, err := m.Save("stale", nil); err != nil {
		t.Fatal(err)
	}

	res, err := m.Switch("stale")
	if err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if !strings.HasPrefix(res.Health, "expired") {
		t.Errorf("Health = %q, want expired", res.Health)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected an expiry warning")
	}
}

func TestSwitch_AutoSaveCapturesRefreshedBundle(t *testing.T) {
	m, store := newTestManager(t, nil)

	setLiveAPIKey(t, store, "sk-ant-work-key")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatal(err)
	}

	stale := oauthBundle(time.Now().Add(24 * time.Hour))
	setLiveOAuth(t, store, stale)
	if _, err := m.Save("personal", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Switch("personal"); err != nil {
		t.Fatal(err)
	}

	// The upstream tool refreshes the live bundle behind our back.
	refreshed := oauthBundle(time.Now().Add(30 * 24 * time.Hour))
	if err := store.Save(testAccount, credential.ServiceLiveOAuth, refreshed); err != nil {
		t.Fatal(err)
	}

	res, err := m.Switch("work")
	if err != nil {
		t.Fatalf("Switch(work) failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	secret, err := store.Get("personal", credential.ServiceBackup)
	if err != nil {
		t.Fatal(err)
	}
	if secret != refreshed {
		t.Error("auto-save did not capture the refreshed bundle")
	}
}

func TestSwitch_AutoSaveFailureAborts(t *testing.T) {
	cfg := config.Default()
	cfg.OnAutoSaveFailure = config.AutoSaveAbort
	m, store := newTestManager(t, cfg)

	setLiveAPIKey(t, store, "sk-ant-work-key")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatal(err)
	}
	setLiveOAuth(t, store, oauthBundle(time.Now().Add(24*time.Hour)))
	if _, err := m.Save("personal", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Switch("personal"); err != nil {
		t.Fatal(err)
	}

	store.SetFailing(true)
	if _, err := m.Switch("work"); !errors.Is(err, ErrAutoSaveFailed) {
		t.Fatalf("Switch = %v, want ErrAutoSaveFailed", err)
	}
}

func TestSwitch_AutoSaveFailurePromptDeclined(t *testing.T) {
	cfg := config.Default()
	cfg.OnAutoSaveFailure = config.AutoSavePrompt
	m, store := newTestManager(t, cfg,
		WithAutoSaveFailurePrompt(func(string) (bool, error) { return false, nil }))

	setLiveAPIKey(t, store, "sk-ant-work-key")
	if _, err := m.Save("work", nil); err != nil {
		t.Fatal(err)
	}
	setLiveOAuth(t, store, oauthBundle(time.Now().Add(24*time.Hour)))
	if _, err := m.Save("personal", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Switch("personal"); err != nil {
		t.Fatal(err)
	}

	store.SetFailing(true)
	if _, err := m.Switch("work"); !errors.Is(err, ErrAutoSaveFailed) {
		t.Fatalf("Switch = %v, want ErrAutoSaveFailed", err)
	}
}

func TestDelete(t *testing.T) {
	m, store := newTestManager(t, nil)

	setLiveAPIKey(t, store, "sk-ant-a")
	if _, err := m.Save("a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Switch("a"); err != nil {
		t.Fatal(err)
	}
	setLiveAPIKey(t, store, "sk-ant-b")
	if _, err := m.Save("b", nil); err != nil {
		t.Fatal(err)
	}

	res, err := m.Delete("b")
	if err != nil {
		t.Fatalf("Delete(b) failed: %v", err)
	}
	if res.WasCurrent {
		t.Error("deleting an inactive profile reported WasCurrent")
	}
	if got := m.Metadata().Current(); got != "a" {
		t.Errorf("current = %q, want a untouched", got)
	}
	if m.Metadata().Exists("b") {
		t.Error("record for b still exists")
	}
	if _, err := store.Get("b", credential.ServiceBackup); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("secret for b still present: %v", err)
	}

	res, err = m.Delete("a")
	if err != nil {
		t.Fatalf("Delete(a) failed: %v", err)
	}
	if !res.WasCurrent {
		t.Error("deleting the active profile did not report WasCurrent")
	}
	if got := m.Metadata().Current(); got != "" {
		t.Errorf("current pointer = %q, want cleared", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	m, _ := newTestManager(t, nil)

	if _, err := m.Delete("ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Delete = %v, want ErrProfileNotFound", err)
	}
}

func TestDelete_KeepsAliases(t *testing.T) {
	m, store := newTestManager(t, nil)
	setLiveAPIKey(t, store, "sk-ant-test")
	if _, err := m.Save("work", []string{"w"}); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Delete("work"); err != nil {
		t.Fatal(err)
	}

	aliases, err := m.Aliases()
	if err != nil {
		t.Fatal(err)
	}
	if aliases["w"] != "work" {
		t.Errorf("alias w = %q, want the dangling mapping kept", aliases["w"])
	}
}
