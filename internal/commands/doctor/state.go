package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/persist"
	"github.com/hay-kot/skillshop/internal/core/session"
	"github.com/hay-kot/skillshop/internal/core/storage"
)

// StateCheck inspects the durable state file. With fix set, records that the
// stores would ignore on restore are deleted.
type StateCheck struct {
	store storage.Store
	path  string
	fix   bool
}

// NewStateCheck creates a new state check. path is the state file location.
func NewStateCheck(store storage.Store, path string, fix bool) *StateCheck {
	return &StateCheck{store: store, path: path, fix: fix}
}

func (c *StateCheck) Name() string {
	return "Local State"
}

func (c *StateCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.path != "" {
		c.checkFile(&result)
	}

	values := map[string]string{}
	for _, key := range []string{storage.KeyToken, storage.KeyUser, storage.KeyCart} {
		entry, err := c.store.Get(ctx, key)
		switch {
		case errors.Is(err, storage.ErrKeyNotFound):
			continue
		case err != nil:
			result.add("Read "+key, StatusFail, err.Error())
			return result
		}
		values[key] = entry.Value
	}

	c.checkSession(ctx, &result, values)
	c.checkCart(ctx, &result, values)

	return result
}

func (c *StateCheck) checkFile(result *Result) {
	info, err := os.Stat(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.add("State file", StatusPass, "not created yet")
		return
	case err != nil:
		result.add("State file", StatusFail, err.Error())
		return
	}

	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		item := CheckItem{
			Label:   "State file permissions",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%s is %o; it holds a bearer token and should be 600", c.path, perm),
			Fixable: true,
		}
		if c.fix {
			if err := os.Chmod(c.path, 0o600); err == nil {
				item.Status = StatusPass
				item.Detail = "permissions set to 600"
			}
		}
		result.Items = append(result.Items, item)
		return
	}

	result.add("State file", StatusPass, c.path)
}

func (c *StateCheck) checkSession(ctx context.Context, result *Result, values map[string]string) {
	token, hasToken := values[storage.KeyToken]
	rawUser, hasUser := values[storage.KeyUser]

	if !hasToken && !hasUser {
		result.add("Session", StatusPass, "logged out")
		return
	}

	var problem string
	switch {
	case !hasUser:
		problem = "token stored without a user"
	case !hasToken || token == "":
		problem = "user stored without a token"
	default:
		user, err := persist.Decode(rawUser, func(u session.User) error {
			if u.ID.IsZero() {
				return errors.New("user has no id")
			}
			return nil
		})
		if err != nil {
			problem = "user record: " + err.Error()
			break
		}
		result.add("Session", StatusPass, fmt.Sprintf("%s (%s)", user.DisplayName(), user.Role()))
		return
	}

	c.fixable(ctx, result, "Session", problem, storage.KeyToken, storage.KeyUser)
}

func (c *StateCheck) checkCart(ctx context.Context, result *Result, values map[string]string) {
	raw, ok := values[storage.KeyCart]
	if !ok {
		result.add("Cart", StatusPass, "empty")
		return
	}

	items, err := persist.Decode[[]cart.Item](raw, nil)
	if err != nil {
		c.fixable(ctx, result, "Cart", err.Error(), storage.KeyCart)
		return
	}

	invalid := 0
	seen := map[string]bool{}
	for _, it := range items {
		if it.Validate() != nil || seen[it.ID.String()] {
			invalid++
		}
		seen[it.ID.String()] = true
	}
	if invalid > 0 {
		result.add("Cart", StatusWarn, fmt.Sprintf("%s will be dropped on load", pluralize(invalid, "invalid item")))
		return
	}

	result.add("Cart", StatusPass, pluralize(len(items), "item"))
}

func (c *StateCheck) fixable(ctx context.Context, result *Result, label, problem string, keys ...string) {
	item := CheckItem{Label: label, Status: StatusFail, Detail: problem, Fixable: true}
	if c.fix {
		item.Status = StatusPass
		item.Detail = "removed unreadable record"
		for _, k := range keys {
			if err := storage.Remove(ctx, c.store, k); err != nil {
				item.Status = StatusFail
				item.Detail = fmt.Sprintf("remove %s: %v", k, err)
				break
			}
		}
	}
	result.Items = append(result.Items, item)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
