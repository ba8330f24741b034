package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
)

// ErrNoAccounts means no publishing identities are configured. Automatic
// recovery is impossible, so callers surface this loudly and skip the
// upload phase.
var ErrNoAccounts = errors.New("no accounts configured")

// Identity is one publishing account: a name and its OAuth credentials
type Identity struct {
	Name         string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type credentialsFile struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// Rotator cycles through a fixed ordered pool of identities. The cursor
// advances by exactly one (mod pool size) per Next call, so N consecutive
// calls cover the pool once in order. Cursor position lives in memory only.
type Rotator struct {
	pool   []Identity
	cursor int
}

// NewRotator builds a rotator over the given ordered pool
func NewRotator(pool []Identity) *Rotator {
	return &Rotator{pool: pool}
}

// LoadAccounts reads every configured account's credentials file and returns
// the ordered identity pool. Accounts whose credentials cannot be read are
// skipped with a warning, preserving the order of the rest.
func LoadAccounts(accounts []config.Account) []Identity {
	var pool []Identity
	for _, acct := range accounts {
		id, err := loadIdentity(acct)
		if err != nil {
			log.Printf("[upload] Warning: skipping account %s: %v", acct.Name, err)
			continue
		}
		pool = append(pool, id)
		log.Printf("[upload] ✅ Loaded account %s", acct.Name)
	}
	log.Printf("[upload] %d account(s) in rotation", len(pool))
	return pool
}

func loadIdentity(acct config.Account) (Identity, error) {
	data, err := os.ReadFile(acct.CredentialsFile)
	if err != nil {
		return Identity{}, fmt.Errorf("read credentials: %w", err)
	}
	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return Identity{}, fmt.Errorf("parse credentials: %w", err)
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return Identity{}, fmt.Errorf("credentials file %s is missing fields", acct.CredentialsFile)
	}
	return Identity{
		Name:         acct.Name,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RefreshToken: creds.RefreshToken,
	}, nil
}

// Next returns the identity at the cursor and advances it by one, wrapping
// at the pool size. A failing account stays in rotation; fairness over
// robustness.
func (r *Rotator) Next() (Identity, error) {
	if len(r.pool) == 0 {
		return Identity{}, ErrNoAccounts
	}
	id := r.pool[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.pool)
	return id, nil
}

// Size returns the number of identities in the pool
func (r *Rotator) Size() int {
	return len(r.pool)
}

// DrawCycle draws one full rotation: pool-size identities starting at the
// current cursor, each identity exactly once
func (r *Rotator) DrawCycle() ([]Identity, error) {
	if len(r.pool) == 0 {
		return nil, ErrNoAccounts
	}
	batch := make([]Identity, 0, len(r.pool))
	for range r.pool {
		id, err := r.Next()
		if err != nil {
			return nil, err
		}
		batch = append(batch, id)
	}
	return batch, nil
}
