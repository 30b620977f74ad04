// Package auth obtains OAuth2 bearer tokens for the cloud speech engine
// with the service-account JWT-bearer grant.
//
// A Provider owns one ServiceAccountCredential and one TokenStore. Token
// returns the cached token while now < expiry - RefreshSkew and otherwise
// signs a fresh assertion and exchanges it, holding a single mutex across
// the check and the exchange so concurrent callers share one exchange.
// Invalidate drops the cached token so the next Token call re-exchanges;
// callers retry their own request after invalidating.
package auth
