// Package github implements the issue source for a single GitHub repository.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.IssueSource].
// It comprises the following components:
//
//   - Connector: converts go-github issues to domain issues and applies the
//     processed label
//   - Client: wraps go-github and runs every call under the rate budget
//   - RateBudget: remaining-call accounting against the core rate limit
//   - Config: repository identity and tuning
//
// # Rate Limiting
//
// The budget is initialised from the rate limit endpoint and then decremented
// by one per successful call. When it reaches zero the connector sleeps until
// the reported reset time plus a grace period, then refreshes. A refresh that
// still reports no calls left is followed by another grace sleep.
//
// A call the API rejects for rate limiting (primary or secondary) exhausts
// the budget and is retried after the wait. All other failures are returned
// as [domain.UpstreamError] carrying the HTTP status, without retry.
//
// An optional token bucket (ThrottleRPS) spaces calls proactively.
//
// # Pagination
//
// Issues are listed sorted by creation time ascending, one page per call,
// with the API default page size. State is "all" when open issues are
// included and "closed" otherwise. Pull requests returned by the issues
// endpoint are flagged on the domain issue, not dropped here.
package github
