package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"mykhata/internal/models"
	"mykhata/internal/password"
	"mykhata/internal/store"
)

// TestPassword satisfies the signup policy and is used by every fixture user.
const TestPassword = "Secret!1"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func init() {
	password.Cost = bcrypt.MinCost
}

// CreateTestUser stores an owner with a unique username.
func CreateTestUser(t *testing.T, creds store.CredentialStore) *models.User {
	t.Helper()
	return CreateTestUserNamed(t, creds, fmt.Sprintf("User%d", nextID()), "")
}

// CreateTestUserNamed stores a user with the given username. A non-empty
// parent makes it a member sub-user.
func CreateTestUserNamed(t *testing.T, creds store.CredentialStore, username, parent string) *models.User {
	t.Helper()

	hash, err := password.Hash(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:       username,
		PasswordHash:   hash,
		Role:           models.RoleOwner,
		ParentUsername: parent,
	}
	if parent != "" {
		user.Role = models.RoleMember
	}
	if err := creds.Create(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	stored, err := creds.FindByUsername(username)
	if err != nil {
		t.Fatalf("failed to reload test user: %v", err)
	}
	return stored
}

// Tx builds a transaction dated YYYY-MM-DD with a decimal amount string.
func Tx(owner, date string, typ models.TransactionType, amount string) models.Transaction {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(fmt.Sprintf("testutil.Tx: %v", err))
	}
	return models.Transaction{
		Owner:    owner,
		Date:     d,
		Type:     typ,
		Category: "Others",
		Amount:   decimal.RequireFromString(amount),
	}
}

// AppendAll appends txs to ledger in order.
func AppendAll(t *testing.T, ledger store.LedgerStore, txs ...models.Transaction) {
	t.Helper()

	for _, tx := range txs {
		if err := ledger.Append(tx); err != nil {
			t.Fatalf("failed to append test transaction: %v", err)
		}
	}
}
