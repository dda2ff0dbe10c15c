package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetProfileSyncTimeout() time.Duration
	GetTokenLeeway() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret is the key material used to seal refresh tokens at rest.
// The default is only suitable for local development.
func (Security) GetSessionSecret() string {
	return GetEnv(sessionSecretVar, "bloghub-dev-session-secret")
}

func (Security) GetMaxSessionAge() time.Duration {
	return GetDuration(sessionMaxAgeVar, 12*time.Hour)
}

func (Security) GetProfileSyncTimeout() time.Duration {
	return GetDuration(profileTimeoutVar, 10*time.Second)
}

// GetTokenLeeway refreshes access tokens slightly before they expire
func (Security) GetTokenLeeway() time.Duration {
	return 30 * time.Second
}
