package config

const (
	// MaxDocumentsPerFetch caps the documents requested from the content API
	// in one load (the REST API's per_page ceiling).
	MaxDocumentsPerFetch = 100

	// MaxUsernameLength matches WordPress user_login (VARCHAR(60)).
	MaxUsernameLength = 60

	// MaxPasswordLength bounds the login form body.
	MaxPasswordLength = 4096

	// MaxQueryLength bounds search input.
	MaxQueryLength = 200

	// MaxSearchLimit bounds the limit parameter of the search API.
	MaxSearchLimit = MaxDocumentsPerFetch
)
