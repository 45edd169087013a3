package doctor

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hay-kot/skillshop/internal/apiclient"
)

// Getter issues GET requests against the API.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// APICheck verifies the configured API answers a public catalog request.
type APICheck struct {
	api     Getter
	baseURL string
}

// NewAPICheck creates a new API reachability check.
func NewAPICheck(api Getter, baseURL string) *APICheck {
	return &APICheck{api: api, baseURL: baseURL}
}

func (c *APICheck) Name() string {
	return "API"
}

func (c *APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	var categories []map[string]any
	err := c.api.Get(ctx, "/catalog/categories", nil, &categories)
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case err == nil:
		result.add("Reachable", StatusPass, fmt.Sprintf("%s (%s)", c.baseURL, elapsed))
	case apiclient.IsUnauthorized(err):
		result.add("Reachable", StatusWarn, fmt.Sprintf("%s answered 401; is the base URL correct?", c.baseURL))
	default:
		result.add("Reachable", StatusFail, err.Error())
	}

	return result
}
