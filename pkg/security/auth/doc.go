/*
Package auth implements the shared-secret check that guards the chat API.

Every caller presents the same secret, by default in the devkey header:

	validator := auth.NewSecretValidator(os.Getenv("SECRET_KEY"), "")
	credential, _ := auth.ExtractCredential(r, auth.DefaultSources("devkey"))
	if !validator.Authorize(credential) {
		// 401
	}

# Storage

The secret may be configured in plain form, compared with
crypto/subtle.ConstantTimeCompare, or as a bcrypt hash produced by Hash.
Hashes keep the plain secret out of configuration files.

# Rotation

Rotate swaps the secret under a lock. The configuration watcher calls it when
the configuration file changes, so a new secret applies without a restart.

# Empty Secrets

A validator with no secret rejects everything, and an empty credential never
matches. There is no way to disable the check through configuration.
*/
package auth
