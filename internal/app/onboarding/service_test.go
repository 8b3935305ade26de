package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"litfish/internal/ports"
)

type fakeAccountPort struct {
	updateErr error
	calls     []profileCall
}

type profileCall struct {
	userID      string
	username    string
	displayName string
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.calls = append(f.calls, profileCall{userID: userID, username: username, displayName: displayName})
	return f.updateErr
}

type fakeEconomyPort struct {
	updateErr error
	updates   []ports.WalletUpdate
}

func (f *fakeEconomyPort) GetBalance(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (f *fakeEconomyPort) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	f.updates = append(f.updates, updates...)
	return f.updateErr
}

func TestOnboardNewUser_GrantsWelcomeTrophies(t *testing.T) {
	accounts := &fakeAccountPort{}
	economy := &fakeEconomyPort{}
	service := NewService(accounts, economy, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr != nil {
		t.Fatalf("Expected no profile update error, got %v", result.ProfileUpdateErr)
	}

	if len(accounts.calls) != 1 {
		t.Fatalf("Expected 1 profile update, got %d", len(accounts.calls))
	}
	if accounts.calls[0].displayName == "" {
		t.Fatal("Expected a generated display name")
	}

	if len(economy.updates) != 1 {
		t.Fatalf("Expected 1 wallet update, got %d", len(economy.updates))
	}
	if economy.updates[0].Amount != defaultWelcomeTrophies {
		t.Fatalf("Expected welcome grant %d, got %d", defaultWelcomeTrophies, economy.updates[0].Amount)
	}
	if economy.updates[0].Metadata["reason"] != "welcome_bonus" {
		t.Fatalf("Unexpected grant metadata: %v", economy.updates[0].Metadata)
	}
}

func TestOnboardNewUser_ProfileFailureStillGrantsTrophies(t *testing.T) {
	economy := &fakeEconomyPort{}
	service := NewService(&fakeAccountPort{updateErr: errors.New("update failed")}, economy, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatal("Expected profile update error to be captured")
	}
	if len(economy.updates) != 1 {
		t.Fatalf("Expected 1 wallet update, got %d", len(economy.updates))
	}
}

func TestOnboardNewUser_WalletFailureReturnsError(t *testing.T) {
	service := NewService(&fakeAccountPort{}, &fakeEconomyPort{updateErr: errors.New("wallet failed")}, rand.New(rand.NewSource(1)))

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected error when the trophy grant fails")
	}
}

func TestOnboardNewUser_RequiresPorts(t *testing.T) {
	service := NewService(nil, nil, rand.New(rand.NewSource(1)))

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected error for an unconfigured service")
	}
}

func TestGenerateFriendlyNameDeterministic(t *testing.T) {
	a := NewService(&fakeAccountPort{}, &fakeEconomyPort{}, rand.New(rand.NewSource(7)))
	b := NewService(&fakeAccountPort{}, &fakeEconomyPort{}, rand.New(rand.NewSource(7)))

	if got, want := a.generateFriendlyName(), b.generateFriendlyName(); got != want {
		t.Errorf("same seed produced %q and %q", got, want)
	}
}
