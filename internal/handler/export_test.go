package handler

// RefreshCookieName re-exports refreshCookieName for the external test
// package, which cannot see unexported identifiers.
const RefreshCookieName = refreshCookieName
