package audible

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials file location under the artifacts dir.
const (
	secretsDirName      = "secrets"
	credentialsFileName = "credentials.json"
)

// Credentials is the persisted authentication state for the Audible
// account, written by an external login flow. Only the fields the
// client needs are modeled; unknown fields are ignored.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ADPToken     string `json:"adp_token"`
	LocaleCode   string `json:"locale_code"`
}

// CredentialsPath returns the expected credentials file location under
// the artifacts dir.
func CredentialsPath(artifactsDir string) string {
	return filepath.Join(artifactsDir, secretsDirName, credentialsFileName)
}

// LoadCredentials reads persisted credentials from the artifacts
// secrets dir. A missing file returns ErrCredentialsMissing with a hint
// on where the file was expected.
func LoadCredentials(artifactsDir string) (Credentials, error) {
	path := CredentialsPath(artifactsDir)

	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the configured artifacts dir
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, fmt.Errorf("%w: expected %s (authenticate first)", ErrCredentialsMissing, path)
		}
		return Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %s: %v", ErrCredentialsInvalid, path, err)
	}
	if creds.AccessToken == "" {
		return Credentials{}, fmt.Errorf("%w: %s has no access token", ErrCredentialsInvalid, path)
	}

	return creds, nil
}
