package ratelimit

import "context"

// CombinedLimiter evaluates the applicable scopes in priority order: IP
// first (cheap, catches unauthenticated abuse), then user, then the
// company aggregate (catches abuse that spreads across IPs but converges on
// one account or tenant). Company checks always run under the aggregate
// class regardless of the endpoint's class.
type CombinedLimiter struct {
	limiter        *Limiter
	aggregateClass Class
}

func NewCombinedLimiter(limiter *Limiter, aggregateClass Class) *CombinedLimiter {
	return &CombinedLimiter{
		limiter:        limiter,
		aggregateClass: aggregateClass,
	}
}

// Check returns the first denial encountered, short-circuiting the remaining
// scopes. If every scope admits it returns the IP-scope result, which is the
// representative result used to populate response headers. userID and
// companyID may be empty for unauthenticated requests.
func (c *CombinedLimiter) Check(ctx context.Context, class Class, ip, userID, companyID string) Result {
	checks := []struct {
		kind  ScopeKind
		value string
		class Class
	}{
		{ScopeIP, ip, class},
		{ScopeUser, userID, class},
		{ScopeCompany, companyID, c.aggregateClass},
	}

	var representative Result
	for i, check := range checks {
		if check.value == "" {
			continue
		}
		result := c.limiter.Check(ctx, ScopeIdentifier(check.kind, check.value), check.class)
		result.Scope = check.kind
		if !result.Allowed {
			return result
		}
		if i == 0 {
			representative = result
		}
	}
	return representative
}
